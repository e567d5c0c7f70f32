package compiler

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/spirv"

	"github.com/xess-engine/xsc/internal/shader"
)

// probeSource is a minimal shader compiled once at startup to verify the
// code-generation path end to end.
const probeSource = `@fragment
fn main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

// Modern is the in-process SPIR-V backend. It supports the full target
// model range, including wave intrinsics, variable rate shading, mesh
// shaders, and raytracing targets.
type Modern struct {
	log *slog.Logger
}

// NewModern initializes the modern backend, compiling a probe shader to
// confirm the pipeline works. An error here means the caller should fall
// back to the legacy backend.
func NewModern(logger *slog.Logger) (*Modern, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := naga.Compile(probeSource); err != nil {
		return nil, fmt.Errorf("probe compile failed: %w", err)
	}

	logger.Info("modern shader backend initialized", "maxModel", shader.ModernMaxModel.String())

	return &Modern{log: logger}, nil
}

func (m *Modern) Name() string { return "modern" }

func (m *Modern) MaxModel() shader.Model { return shader.ModernMaxModel }

func (m *Modern) Supports(f Feature) bool {
	switch f {
	case FeatureWaveIntrinsics, FeatureVariableRateShading, FeatureMeshShaders, FeatureRaytracing:
		return true
	}

	return false
}

// Compile compiles source to SPIR-V bytecode. When debug info is requested
// the HLSL translation of the module is attached as the disassembly.
func (m *Modern) Compile(source, entryPoint string, stage shader.Stage, opts shader.Options, sourceName string) *shader.Artifact {
	if opts.TargetModel > m.MaxModel() {
		return shader.Failed(fmt.Sprintf("target model %s exceeds backend maximum %s",
			opts.TargetModel, m.MaxModel()))
	}

	stg, ok := irStage(stage)
	if !ok {
		return shader.Failed(fmt.Sprintf("target profile %s is not supported by the SPIR-V backend",
			stage.Profile(opts.TargetModel)))
	}

	module, diags := lowerSource(source)
	if module == nil {
		return &shader.Artifact{Errors: diags}
	}

	ep, problem := findEntryPoint(module, entryPoint, stg)
	if ep == nil {
		return shader.Failed(problem)
	}

	bytecode, err := naga.GenerateSPIRV(module, spirv.Options{
		Version: spirv.Version1_3,
		Debug:   opts.DebugInfo,
	})
	if err != nil {
		return shader.Failed(err.Error())
	}

	artifact := &shader.Artifact{
		Bytecode:   bytecode,
		Success:    true,
		Reflection: ExtractReflection(module, ep),
	}

	if opts.DebugInfo {
		disasm, _, err := hlsl.Compile(module, &hlsl.Options{
			ShaderModel:         hlslModel(opts.TargetModel),
			EntryPoint:          ep.Name,
			FakeMissingBindings: true,
		})
		if err != nil {
			m.log.Debug("disassembly unavailable", "source", sourceName, "error", err)
		} else {
			artifact.Disassembly = disasm
		}
	}

	return applyWarningPolicy(artifact, opts)
}

// hlslModel maps a target model onto the HLSL writer's shader model set.
func hlslModel(m shader.Model) hlsl.ShaderModel {
	switch m {
	case shader.SM5_0:
		return hlsl.ShaderModel5_0
	case shader.SM5_1:
		return hlsl.ShaderModel5_1
	case shader.SM6_0:
		return hlsl.ShaderModel6_0
	case shader.SM6_1:
		return hlsl.ShaderModel6_1
	case shader.SM6_2:
		return hlsl.ShaderModel6_2
	case shader.SM6_3:
		return hlsl.ShaderModel6_3
	}

	return hlsl.ShaderModel6_4
}
