package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLocalConfigInSameDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".xsc.yml")
	require.NoError(t, os.WriteFile(path, []byte("model: \"5.1\"\n"), 0o644))

	assert.Equal(t, path, FindLocalConfig(dir))
}

func TestFindLocalConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "shaders", "post")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path := filepath.Join(root, ".xsc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: mainPS\n"), 0o644))

	assert.Equal(t, path, FindLocalConfig(nested))
}

func TestFindLocalConfigMissing(t *testing.T) {
	assert.Equal(t, "", FindLocalConfig(t.TempDir()))
}

func TestLoaderAppliesLocalConfig(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xsc.yml"),
		[]byte("model: \"5.1\"\nentry: mainPS\nno_cache: true\n"), 0o644))

	source := filepath.Join(dir, "Blur.wgsl")
	require.NoError(t, os.WriteFile(source, []byte("// wgsl"), 0o644))

	cfg, err := NewLoader().LoadForCompile(testCommand(), []string{source})
	require.NoError(t, err)

	assert.Equal(t, "5.1", cfg.Model)
	assert.Equal(t, "mainPS", cfg.EntryPoint)
	assert.True(t, cfg.NoCache, "config files use the snake_case key")
}

func TestLoaderFlagsOverrideLocalConfig(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xsc.yml"),
		[]byte("model: \"5.1\"\n"), 0o644))

	source := filepath.Join(dir, "Blur.wgsl")
	require.NoError(t, os.WriteFile(source, []byte("// wgsl"), 0o644))

	cmd := testCommand()
	require.NoError(t, cmd.Flags().Set("model", "6.0"))

	cfg, err := NewLoader().LoadForCompile(cmd, []string{source})
	require.NoError(t, err)

	assert.Equal(t, "6.0", cfg.Model)
}

// testCommand mirrors the flag set of the compile command.
func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("model", "", "")
	cmd.Flags().String("entry", "", "")
	cmd.Flags().String("cache-dir", "", "")
	cmd.Flags().Bool("no-cache", false, "")
	cmd.Flags().Bool("legacy", false, "")
	cmd.Flags().Bool("verbose", false, "")

	return cmd
}
