package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xess-engine/xsc/internal/config"
	"github.com/xess-engine/xsc/internal/shader"
)

// newCompileFlags mirrors the compile command's flag set without sharing
// its global state between tests.
func newCompileFlags() *cobra.Command {
	cmd := &cobra.Command{Use: "compile"}
	cmd.Flags().StringArrayP("define", "D", nil, "")
	cmd.Flags().StringArrayP("include", "I", nil, "")
	cmd.Flags().Bool("debug", false, "")
	cmd.Flags().IntP("opt", "O", 3, "")
	cmd.Flags().Bool("wx", false, "")

	return cmd
}

func testCfg() *config.Config {
	cfg := &config.Config{Model: "6.4"}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return cfg
}

func TestParseMacros(t *testing.T) {
	tests := []struct {
		name    string
		defines []string
		want    []shader.Macro
	}{
		{
			name:    "empty",
			defines: nil,
			want:    []shader.Macro{},
		},
		{
			name:    "name and value",
			defines: []string{"QUALITY=2"},
			want:    []shader.Macro{{Name: "QUALITY", Definition: "2"}},
		},
		{
			name:    "bare name defaults to 1",
			defines: []string{"USE_FP16"},
			want:    []shader.Macro{{Name: "USE_FP16", Definition: "1"}},
		},
		{
			name:    "empty value kept",
			defines: []string{"EMPTY="},
			want:    []shader.Macro{{Name: "EMPTY", Definition: ""}},
		},
		{
			name:    "value containing equals",
			defines: []string{"EXPR=a=b"},
			want:    []shader.Macro{{Name: "EXPR", Definition: "a=b"}},
		},
		{
			name:    "order preserved",
			defines: []string{"B=2", "A=1"},
			want: []shader.Macro{
				{Name: "B", Definition: "2"},
				{Name: "A", Definition: "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMacros(tt.defines))
		})
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "shaders/Blur.spv", outputPath("shaders/Blur.wgsl", shader.SM6_4))
	assert.Equal(t, "shaders/Blur.hlsl", outputPath("shaders/Blur.wgsl", shader.SM5_1))
	assert.Equal(t, "noext.spv", outputPath("noext", shader.SM6_4))
}

func TestOutputPathFollowsCompiledModel(t *testing.T) {
	// A legacy target on a modern-capable build still produces HLSL text,
	// so the extension must track the requested model, not the ceiling.
	assert.Equal(t, "Blur.hlsl", outputPath("Blur.wgsl", compiledModel(shader.SM5_1, shader.SM6_4)))

	// A modern target forced through the legacy backend is clamped.
	assert.Equal(t, "Blur.hlsl", outputPath("Blur.wgsl", compiledModel(shader.SM6_4, shader.SM5_1)))

	assert.Equal(t, "Blur.spv", outputPath("Blur.wgsl", compiledModel(shader.SM6_4, shader.SM6_4)))
	assert.Equal(t, shader.SM6_0, compiledModel(shader.SM6_0, shader.SM6_4))
}

func TestCompileOptionsRejectsBadOptLevel(t *testing.T) {
	cmd := newCompileFlags()
	require.NoError(t, cmd.Flags().Set("opt", "7"))

	_, err := compileOptions(cmd, testCfg())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "optimization level")
}

func TestCompileOptionsFromFlags(t *testing.T) {
	cmd := newCompileFlags()
	require.NoError(t, cmd.Flags().Set("define", "FOO=bar"))
	require.NoError(t, cmd.Flags().Set("opt", "0"))
	require.NoError(t, cmd.Flags().Set("debug", "true"))

	opts, err := compileOptions(cmd, testCfg())
	require.NoError(t, err)

	assert.Equal(t, shader.SM6_4, opts.TargetModel)
	assert.Contains(t, opts.Macros, shader.Macro{Name: "FOO", Definition: "bar"})
	assert.False(t, opts.Optimize, "opt level 0 disables optimization")
	assert.True(t, opts.DebugInfo)
}
