package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xess-engine/xsc/internal/config"
	"github.com/xess-engine/xsc/internal/shader"
)

var watchCmd = &cobra.Command{
	Use:          "watch",
	Short:        "Watch shader files and recompile on change",
	Long:         `Compile the given shader files, then poll them for edits and recompile automatically.`,
	RunE:         runWatch,
	SilenceUsage: true,
}

func init() {
	watchCmd.Flags().StringArrayP("define", "D", nil, "Preprocessor macro (name or name=value)")
	watchCmd.Flags().StringArrayP("include", "I", nil, "Include search path")
	watchCmd.Flags().Bool("debug", false, "Emit debug info and disassembly")
	watchCmd.Flags().IntP("opt", "O", 3, "Optimization level (0-3)")
	watchCmd.Flags().Bool("wx", false, "Treat warnings as errors")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires at least one shader file argument")
	}

	cfg, err := config.NewLoader().LoadForCompile(cmd, args)
	if err != nil {
		return err
	}

	opts, err := compileOptions(cmd, cfg)
	if err != nil {
		return err
	}

	stageName, _ := cmd.Flags().GetString("stage")
	stage := shader.ParseStage(stageName)

	mgr := newManager(cfg)
	defer mgr.Close()
	mgr.SetHotReloadEnabled(true)

	for _, file := range args {
		artifact := mgr.CompileFromFile(file, cfg.EntryPoint, stage, opts)
		reportReload(file, artifact)

		mgr.WatchFile(file, cfg.EntryPoint, stage, opts, func(a *shader.Artifact) {
			reportReload(file, a)
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.ReloadIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fmt.Printf("Watching %d shader file(s), polling every %s\n", len(args), interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mgr.CheckForChanges()
		}
	}
}

func reportReload(file string, artifact *shader.Artifact) {
	if artifact.Success {
		fmt.Printf("%s: compiled (%d bytes)\n", file, len(artifact.Bytecode))
		return
	}

	for _, e := range artifact.Errors {
		fmt.Fprintf(os.Stderr, "%s: error: %s\n", file, e)
	}
}
