package compiler

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/naga/hlsl"

	"github.com/xess-engine/xsc/internal/shader"
)

// Legacy emits Shader Model 5.x HLSL source for consumption by the old
// D3D toolchain. It is always available and caps out at SM 5.1; requests
// above the cap are clamped with a warning so compilation still succeeds
// when the modern backend is unavailable.
type Legacy struct {
	log *slog.Logger
}

func NewLegacy(logger *slog.Logger) *Legacy {
	if logger == nil {
		logger = slog.Default()
	}

	return &Legacy{log: logger}
}

func (l *Legacy) Name() string { return "legacy" }

func (l *Legacy) MaxModel() shader.Model { return shader.LegacyMaxModel }

func (l *Legacy) Supports(Feature) bool { return false }

func (l *Legacy) Compile(source, entryPoint string, stage shader.Stage, opts shader.Options, sourceName string) *shader.Artifact {
	var warnings []string

	model := opts.TargetModel
	if model > l.MaxModel() {
		warnings = append(warnings, fmt.Sprintf("target model %s clamped to %s by the legacy backend",
			model, l.MaxModel()))
		model = l.MaxModel()
	}

	stg, ok := irStage(stage)
	if !ok {
		return shader.Failed(fmt.Sprintf("target profile %s is not supported by the legacy backend",
			stage.Profile(model)))
	}

	module, diags := lowerSource(source)
	if module == nil {
		return &shader.Artifact{Errors: diags}
	}

	ep, problem := findEntryPoint(module, entryPoint, stg)
	if ep == nil {
		return shader.Failed(problem)
	}

	text, info, err := hlsl.Compile(module, &hlsl.Options{
		ShaderModel:         hlslModel(model),
		EntryPoint:          ep.Name,
		FakeMissingBindings: true,
	})
	if err != nil {
		return shader.Failed(err.Error())
	}

	if info != nil && info.RequiredShaderModel > hlslModel(model) {
		warnings = append(warnings, fmt.Sprintf("shader requires %s features beyond the requested profile",
			info.RequiredShaderModel))
	}

	artifact := &shader.Artifact{
		Bytecode:   []byte(text),
		Warnings:   warnings,
		Success:    true,
		Reflection: ExtractReflection(module, ep),
	}

	if opts.DebugInfo {
		artifact.Disassembly = text
	}

	return applyWarningPolicy(artifact, opts)
}
