package shader

import "fmt"

// Model is a target shading-language version. The numeric encoding packs
// the major version in the high nibble and the minor version in the low
// nibble, so models compare correctly with <= and >=.
type Model uint32

const (
	SM5_0 Model = 0x50
	SM5_1 Model = 0x51
	SM6_0 Model = 0x60
	SM6_1 Model = 0x61
	SM6_2 Model = 0x62
	SM6_3 Model = 0x63
	SM6_4 Model = 0x64
)

// LegacyMaxModel is the highest model the legacy backend can target.
const LegacyMaxModel = SM5_1

// ModernMaxModel is the highest model the modern backend can target.
const ModernMaxModel = SM6_4

// Major returns the major version number.
func (m Model) Major() uint32 { return uint32(m) >> 4 }

// Minor returns the minor version number.
func (m Model) Minor() uint32 { return uint32(m) & 0xF }

// String formats the model as "major.minor" (e.g. "6.4").
func (m Model) String() string {
	return fmt.Sprintf("%d.%d", m.Major(), m.Minor())
}

// ProfileSuffix formats the model for target profile strings (e.g. "6_4").
func (m Model) ProfileSuffix() string {
	return fmt.Sprintf("%d_%d", m.Major(), m.Minor())
}

// ParseModel parses a model string such as "6.4" or "6_4".
// Unknown strings fall back to SM5_0, matching the most conservative target.
func ParseModel(s string) Model {
	for _, m := range []Model{SM5_0, SM5_1, SM6_0, SM6_1, SM6_2, SM6_3, SM6_4} {
		if s == m.String() || s == m.ProfileSuffix() {
			return m
		}
	}

	return SM5_0
}
