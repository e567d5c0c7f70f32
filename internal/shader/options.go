package shader

// Macro is a single preprocessor-style definition passed to a compile.
type Macro struct {
	Name       string
	Definition string
}

// Options describes how a shader is compiled. A value is treated as
// immutable once passed to a compile call; the full option set (except
// include paths) participates in cache-key derivation.
type Options struct {
	// TargetModel is the shading-language version to compile for.
	TargetModel Model

	// Macros are name/definition pairs. Order is significant: it is part
	// of the cache identity and is never normalized.
	Macros []Macro

	// IncludePaths are additional search paths for include resolution.
	IncludePaths []string

	DebugInfo          bool
	Optimize           bool
	WarningsAsErrors   bool
	StrictFloat        bool
	UnboundedResources bool

	// OptimizationLevel ranges 0-3 and only applies when Optimize is set.
	OptimizationLevel uint32
}

// DefaultOptions returns the options used when a caller passes none:
// the highest modern model, full optimization, no debug info.
func DefaultOptions() Options {
	return Options{
		TargetModel:       ModernMaxModel,
		Optimize:          true,
		OptimizationLevel: 3,
	}
}
