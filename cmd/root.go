package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xess-engine/xsc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "xsc",
	Short:        "Shader compiler with persistent caching",
	Long:         `Compile shaders to GPU bytecode, with a two-tier compile cache and hot reload`,
	RunE:         runCompile,
	SilenceUsage: true,
	Args:         cobra.ArbitraryArgs,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("model", "m", "", "Target shading-language version (e.g. 5.1, 6.4)")
	rootCmd.PersistentFlags().StringP("entry", "e", "", "Entry point to compile")
	rootCmd.PersistentFlags().StringP("stage", "s", "pixel", "Shader stage (vertex, pixel, compute, ...)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Shader cache directory")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the shader cache")
	rootCmd.PersistentFlags().Bool("legacy", false, "Force the legacy compiler backend")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// The bare invocation compiles, so it takes the compile flags too.
	rootCmd.Flags().StringArrayP("define", "D", nil, "Preprocessor macro (name or name=value)")
	rootCmd.Flags().StringArrayP("include", "I", nil, "Include search path")
	rootCmd.Flags().Bool("debug", false, "Emit debug info and disassembly")
	rootCmd.Flags().IntP("opt", "O", 3, "Optimization level (0-3)")
	rootCmd.Flags().Bool("wx", false, "Treat warnings as errors")
	rootCmd.Flags().StringP("out", "o", "", "Output file (single input only)")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(watchCmd)

	viper.SetDefault("model", "6.4")
	viper.SetDefault("entry", "main")
	viper.SetDefault("verbose", false)
}
