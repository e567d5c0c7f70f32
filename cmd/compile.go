package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xess-engine/xsc/internal/config"
	"github.com/xess-engine/xsc/internal/manager"
	"github.com/xess-engine/xsc/internal/shader"
)

var compileCmd = &cobra.Command{
	Use:          "compile",
	Short:        "Compile shader files",
	Long:         `Compile one or more shader source files to GPU bytecode.`,
	RunE:         runCompile,
	SilenceUsage: true,
}

func init() {
	compileCmd.Flags().StringArrayP("define", "D", nil, "Preprocessor macro (name or name=value)")
	compileCmd.Flags().StringArrayP("include", "I", nil, "Include search path")
	compileCmd.Flags().Bool("debug", false, "Emit debug info and disassembly")
	compileCmd.Flags().IntP("opt", "O", 3, "Optimization level (0-3)")
	compileCmd.Flags().Bool("wx", false, "Treat warnings as errors")
	compileCmd.Flags().StringP("out", "o", "", "Output file (single input only)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires at least one shader file argument")
	}

	cfg, err := config.NewLoader().LoadForCompile(cmd, args)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out != "" && len(args) > 1 {
		return fmt.Errorf("--out requires exactly one input file")
	}

	opts, err := compileOptions(cmd, cfg)
	if err != nil {
		return err
	}

	stageName, _ := cmd.Flags().GetString("stage")
	stage := shader.ParseStage(stageName)

	return compileFiles(newManager(cfg), cfg, args, stage, opts, out)
}

// newManager builds a manager from the loaded configuration.
func newManager(cfg *config.Config) *manager.Manager {
	return manager.New(manager.Config{
		CacheEnabled: !cfg.NoCache,
		CacheDir:     cfg.CacheDir,
		MaxEntries:   cfg.MaxEntries,
		MaxMemoryMB:  cfg.MaxMemoryMB,
		LegacyOnly:   cfg.Legacy,
	}, newLogger(cfg.Verbose))
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func compileOptions(cmd *cobra.Command, cfg *config.Config) (shader.Options, error) {
	defines, _ := cmd.Flags().GetStringArray("define")
	includes, _ := cmd.Flags().GetStringArray("include")
	debug, _ := cmd.Flags().GetBool("debug")
	optLevel, _ := cmd.Flags().GetInt("opt")
	wx, _ := cmd.Flags().GetBool("wx")

	if optLevel < 0 || optLevel > 3 {
		return shader.Options{}, fmt.Errorf("optimization level must be 0-3, got %d", optLevel)
	}

	return shader.Options{
		TargetModel:       cfg.TargetModel,
		Macros:            parseMacros(defines),
		IncludePaths:      includes,
		DebugInfo:         debug,
		Optimize:          optLevel > 0,
		WarningsAsErrors:  wx,
		OptimizationLevel: uint32(optLevel),
	}, nil
}

// parseMacros converts -D flags into macros. A bare name defines to "1",
// matching the usual compiler convention.
func parseMacros(defines []string) []shader.Macro {
	macros := make([]shader.Macro, 0, len(defines))
	for _, d := range defines {
		name, definition, found := strings.Cut(d, "=")
		if !found {
			definition = "1"
		}

		macros = append(macros, shader.Macro{Name: name, Definition: definition})
	}

	return macros
}

func compileFiles(mgr *manager.Manager, cfg *config.Config, files []string, stage shader.Stage, opts shader.Options, out string) error {
	defer mgr.Close()

	var failed int
	for _, file := range files {
		artifact := mgr.CompileFromFile(file, cfg.EntryPoint, stage, opts)

		for _, w := range artifact.Warnings {
			fmt.Fprintf(os.Stderr, "%s: warning: %s\n", file, w)
		}

		if !artifact.Success {
			for _, e := range artifact.Errors {
				fmt.Fprintf(os.Stderr, "%s: error: %s\n", file, e)
			}

			failed++
			continue
		}

		dest := out
		if dest == "" {
			dest = outputPath(file, compiledModel(opts.TargetModel, mgr.MaxModel()))
		}

		if err := os.WriteFile(dest, artifact.Bytecode, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}

		if cfg.Verbose {
			fmt.Printf("Compiled %s -> %s (%d bytes)\n", file, dest, len(artifact.Bytecode))
		}

		if opts.DebugInfo && artifact.Disassembly != "" {
			fmt.Print(artifact.Disassembly)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d shaders failed to compile", failed, len(files))
	}

	return nil
}

// compiledModel is the model the selected backend actually targets:
// requests above the active ceiling are clamped to it.
func compiledModel(target, ceiling shader.Model) shader.Model {
	if target > ceiling {
		return ceiling
	}

	return target
}

// outputPath derives the default output name from the model a compile
// actually targeted: legacy models produce HLSL text, the rest SPIR-V.
func outputPath(file string, model shader.Model) string {
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	if model <= shader.LegacyMaxModel {
		return stem + ".hlsl"
	}

	return stem + ".spv"
}
