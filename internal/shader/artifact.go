package shader

// InputElement describes one element of an entry point's input layout.
type InputElement struct {
	// Name is the source-level argument or field name.
	Name string

	// Location is the input slot the element is bound to.
	Location uint32
}

// Reflection holds the binding metadata extracted from a compiled module.
type Reflection struct {
	InputLayout     []InputElement
	ConstantBuffers map[string]uint32
	Textures        map[string]uint32
	Samplers        map[string]uint32
	UAVs            map[string]uint32
}

// NewReflection returns an empty reflection table with all maps allocated.
func NewReflection() Reflection {
	return Reflection{
		ConstantBuffers: make(map[string]uint32),
		Textures:        make(map[string]uint32),
		Samplers:        make(map[string]uint32),
		UAVs:            make(map[string]uint32),
	}
}

// Artifact is the result of a compile. A successful artifact has non-empty
// bytecode and Success set; a failed one has Success unset and at least one
// error string. Artifacts are shared by pointer between callers that hit the
// same cache key, so callers must not mutate them.
type Artifact struct {
	Bytecode    []byte
	Disassembly string
	Errors      []string
	Warnings    []string
	Success     bool

	Reflection Reflection
}

// Failed builds a failure artifact carrying a single synthesized error.
// Backend-internal problems (unavailable compiler, malformed arguments)
// are reported this way rather than as Go errors.
func Failed(msg string) *Artifact {
	return &Artifact{Errors: []string{msg}}
}

// Size returns the approximate in-memory footprint of the artifact,
// used for the manager's memory ceiling accounting.
func (a *Artifact) Size() uint64 {
	return uint64(len(a.Bytecode) + len(a.Disassembly))
}
