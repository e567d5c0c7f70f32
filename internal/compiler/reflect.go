package compiler

import (
	"fmt"

	"github.com/gogpu/naga/ir"

	"github.com/xess-engine/xsc/internal/shader"
)

// ExtractReflection builds the binding tables and input layout for a
// lowered module. Resources are classified by their IR type: sampled and
// depth images become texture bindings, storage images and storage
// buffers become UAV bindings, uniform buffers become constant buffer
// bindings, and samplers stand alone.
func ExtractReflection(module *ir.Module, ep *ir.EntryPoint) shader.Reflection {
	refl := shader.NewReflection()

	for _, g := range module.GlobalVariables {
		if g.Binding == nil {
			continue
		}

		slot := g.Binding.Binding

		var inner ir.TypeInner
		if int(g.Type) < len(module.Types) {
			inner = module.Types[g.Type].Inner
		}

		switch t := inner.(type) {
		case ir.SamplerType:
			refl.Samplers[g.Name] = slot
		case ir.ImageType:
			if t.Class == ir.ImageClassStorage {
				refl.UAVs[g.Name] = slot
			} else {
				refl.Textures[g.Name] = slot
			}
		default:
			switch g.Space {
			case ir.SpaceUniform:
				refl.ConstantBuffers[g.Name] = slot
			case ir.SpaceStorage:
				refl.UAVs[g.Name] = slot
			}
		}
	}

	if ep != nil {
		fn := &ep.Function
		for _, arg := range fn.Arguments {
			if arg.Binding == nil {
				continue
			}

			if loc, ok := (*arg.Binding).(ir.LocationBinding); ok {
				refl.InputLayout = append(refl.InputLayout, shader.InputElement{
					Name:     arg.Name,
					Location: loc.Location,
				})
			}
		}
	}

	return refl
}

// Reflect re-extracts reflection metadata from source alone. The manager
// uses it on cache hits, where bytecode comes from the cache but binding
// metadata still has to be rebuilt.
func Reflect(source, entryPoint string, stage shader.Stage) (shader.Reflection, error) {
	stg, ok := irStage(stage)
	if !ok {
		return shader.NewReflection(), fmt.Errorf("stage %s has no source-level reflection", stage)
	}

	module, diags := lowerSource(source)
	if module == nil {
		return shader.NewReflection(), fmt.Errorf("failed to lower source: %s", diags[0])
	}

	ep, problem := findEntryPoint(module, entryPoint, stg)
	if ep == nil {
		return shader.NewReflection(), fmt.Errorf("%s", problem)
	}

	return ExtractReflection(module, ep), nil
}
