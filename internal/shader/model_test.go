package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelEncoding(t *testing.T) {
	tests := []struct {
		model  Model
		major  uint32
		minor  uint32
		str    string
		suffix string
	}{
		{SM5_0, 5, 0, "5.0", "5_0"},
		{SM5_1, 5, 1, "5.1", "5_1"},
		{SM6_0, 6, 0, "6.0", "6_0"},
		{SM6_4, 6, 4, "6.4", "6_4"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.major, tt.model.Major())
			assert.Equal(t, tt.minor, tt.model.Minor())
			assert.Equal(t, tt.str, tt.model.String())
			assert.Equal(t, tt.suffix, tt.model.ProfileSuffix())
		})
	}
}

func TestModelOrdering(t *testing.T) {
	assert.True(t, SM5_0 < SM5_1)
	assert.True(t, SM5_1 < SM6_0)
	assert.True(t, SM6_3 < SM6_4)
	assert.True(t, SM5_1 <= LegacyMaxModel)
	assert.True(t, SM6_0 > LegacyMaxModel)
}

func TestParseModel(t *testing.T) {
	assert.Equal(t, SM6_4, ParseModel("6.4"))
	assert.Equal(t, SM6_4, ParseModel("6_4"))
	assert.Equal(t, SM5_1, ParseModel("5.1"))

	// Unknown strings fall back to the most conservative target
	assert.Equal(t, SM5_0, ParseModel("9.9"))
	assert.Equal(t, SM5_0, ParseModel(""))
}

func TestStageProfile(t *testing.T) {
	tests := []struct {
		stage   Stage
		model   Model
		profile string
	}{
		{StageVertex, SM6_0, "vs_6_0"},
		{StagePixel, SM6_4, "ps_6_4"},
		{StageCompute, SM5_1, "cs_5_1"},
		{StageMesh, SM6_4, "ms_6_4"},
		{StageRayGeneration, SM6_4, "lib_6_4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.profile, tt.stage.Profile(tt.model))
	}
}

func TestParseStage(t *testing.T) {
	assert.Equal(t, StagePixel, ParseStage("ps"))
	assert.Equal(t, StagePixel, ParseStage("pixel"))
	assert.Equal(t, StagePixel, ParseStage("fragment"))
	assert.Equal(t, StageCompute, ParseStage("cs"))
	assert.Equal(t, StageMesh, ParseStage("mesh"))

	// Unknown strings fall back to vertex
	assert.Equal(t, StageVertex, ParseStage("nope"))
}
