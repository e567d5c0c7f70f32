// Package compiler provides the shader compiler backends.
//
// Two backends exist: the modern backend compiles in-process to SPIR-V and
// covers the full target-model range; the legacy backend emits Shader Model
// 5.x HLSL for the old toolchain and is capped at SM 5.1. Which one handles
// a given compile is the manager's policy, not the backend's.
//
// Backends never return Go errors for compilation failures. A failed
// compile produces an artifact with Success unset and a populated error
// list; callers must check Success before using the result.
package compiler

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/xess-engine/xsc/internal/shader"
)

// Feature identifies a compiler capability. Support is a static property
// of the backend — it reports what the compiler can target, independent
// of what any GPU can run.
type Feature uint32

const (
	FeatureWaveIntrinsics Feature = 1 << iota
	FeatureVariableRateShading
	FeatureMeshShaders
	FeatureRaytracing
)

// Backend turns shader source into a compiled artifact.
type Backend interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string

	// Compile transforms (source, entry point, stage, options) into an
	// artifact. sourceName labels diagnostics and may be empty.
	Compile(source, entryPoint string, stage shader.Stage, opts shader.Options, sourceName string) *shader.Artifact

	// MaxModel is the highest target model the backend supports.
	MaxModel() shader.Model

	// Supports reports whether the backend can target a feature.
	Supports(f Feature) bool
}

// lowerSource runs the shared front half of both backends: parse the
// source, lower it to IR, and validate. Failures come back as diagnostic
// strings, not errors, so backends can fold them into the artifact.
func lowerSource(source string) (*ir.Module, []string) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, []string{err.Error()}
	}

	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, []string{err.Error()}
	}

	validationErrors, err := ir.Validate(module)
	if err != nil {
		return nil, []string{err.Error()}
	}
	if len(validationErrors) > 0 {
		diags := make([]string, 0, len(validationErrors))
		for _, ve := range validationErrors {
			diags = append(diags, ve.Error())
		}

		return nil, diags
	}

	return module, nil
}

// irStage maps a pipeline stage to the IR stage the frontend understands.
// Stages outside the vertex/pixel/compute set have no source-level
// representation here and report false.
func irStage(s shader.Stage) (ir.ShaderStage, bool) {
	switch s {
	case shader.StageVertex:
		return ir.StageVertex, true
	case shader.StagePixel:
		return ir.StageFragment, true
	case shader.StageCompute:
		return ir.StageCompute, true
	}

	return 0, false
}

// applyWarningPolicy demotes a successful compile to a failure when the
// options request warnings-as-errors and any warning was emitted. The
// warnings become the error list and the outputs are dropped, keeping the
// failed-artifact shape callers rely on.
func applyWarningPolicy(a *shader.Artifact, opts shader.Options) *shader.Artifact {
	if opts.WarningsAsErrors && a.Success && len(a.Warnings) > 0 {
		a.Errors = append(a.Errors, a.Warnings...)
		a.Warnings = nil
		a.Success = false
		a.Bytecode = nil
		a.Disassembly = ""
	}

	return a
}

// findEntryPoint locates the requested entry point in the module and
// checks it against the requested stage. An empty name selects the first
// entry point of the matching stage.
func findEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) (*ir.EntryPoint, string) {
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Stage != stage {
			continue
		}

		if name == "" || ep.Name == name {
			return ep, ""
		}
	}

	if name == "" {
		return nil, "no entry point found for the requested stage"
	}

	return nil, fmt.Sprintf("entry point %q not found for the requested stage", name)
}
