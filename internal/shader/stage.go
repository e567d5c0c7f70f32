package shader

// Stage is the shader pipeline role a compile targets. It selects the
// target profile prefix and the kind of object the backend produces.
type Stage uint32

const (
	StageVertex Stage = iota
	StageHull
	StageDomain
	StageGeometry
	StagePixel
	StageCompute
	StageAmplification
	StageMesh
	StageRayGeneration
	StageMiss
	StageClosestHit
	StageAnyHit
)

var stageNames = map[Stage]string{
	StageVertex:        "Vertex",
	StageHull:          "Hull",
	StageDomain:        "Domain",
	StageGeometry:      "Geometry",
	StagePixel:         "Pixel",
	StageCompute:       "Compute",
	StageAmplification: "Amplification",
	StageMesh:          "Mesh",
	StageRayGeneration: "RayGeneration",
	StageMiss:          "Miss",
	StageClosestHit:    "ClosestHit",
	StageAnyHit:        "AnyHit",
}

var stagePrefixes = map[Stage]string{
	StageVertex:        "vs",
	StageHull:          "hs",
	StageDomain:        "ds",
	StageGeometry:      "gs",
	StagePixel:         "ps",
	StageCompute:       "cs",
	StageAmplification: "as",
	StageMesh:          "ms",
	StageRayGeneration: "lib",
	StageMiss:          "lib",
	StageClosestHit:    "lib",
	StageAnyHit:        "lib",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}

	return "Unknown"
}

// ProfilePrefix returns the two-letter target profile prefix ("vs", "ps", ...).
// Raytracing stages compile as libraries and share the "lib" prefix.
func (s Stage) ProfilePrefix() string {
	if p, ok := stagePrefixes[s]; ok {
		return p
	}

	return "vs"
}

// Profile builds the full target profile string for a stage and model,
// e.g. (Pixel, SM6_4) -> "ps_6_4".
func (s Stage) Profile(m Model) string {
	return s.ProfilePrefix() + "_" + m.ProfileSuffix()
}

// ParseStage parses a stage from its profile prefix or full name.
// Unknown strings fall back to the vertex stage.
func ParseStage(str string) Stage {
	switch str {
	case "vs", "vertex", "Vertex":
		return StageVertex
	case "hs", "hull", "Hull":
		return StageHull
	case "ds", "domain", "Domain":
		return StageDomain
	case "gs", "geometry", "Geometry":
		return StageGeometry
	case "ps", "pixel", "Pixel", "fragment":
		return StagePixel
	case "cs", "compute", "Compute":
		return StageCompute
	case "as", "amplification", "Amplification":
		return StageAmplification
	case "ms", "mesh", "Mesh":
		return StageMesh
	case "raygeneration", "RayGeneration":
		return StageRayGeneration
	case "miss", "Miss":
		return StageMiss
	case "closesthit", "ClosestHit":
		return StageClosestHit
	case "anyhit", "AnyHit":
		return StageAnyHit
	}

	return StageVertex
}
