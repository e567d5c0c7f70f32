package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xess-engine/xsc/internal/cache"
	"github.com/xess-engine/xsc/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the shader cache",
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear",
	Short:        "Remove all cached shader bytecode",
	RunE:         runCacheClear,
	SilenceUsage: true,
}

var cacheStatsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Show shader cache statistics",
	RunE:         runCacheStats,
	SilenceUsage: true,
}

var cacheListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List cached shader records",
	RunE:         runCacheList,
	SilenceUsage: true,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
}

func openStore(cmd *cobra.Command) (*cache.Store, *config.Config, error) {
	cfg, err := config.NewLoader().LoadForCompile(cmd, nil)
	if err != nil {
		return nil, nil, err
	}

	return cache.NewStore(cfg.CacheDir, newLogger(cfg.Verbose)), cfg, nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	store.Clear()
	fmt.Printf("Cleared shader cache: %s\n", cfg.CacheDir)

	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	index := store.Index()
	if index == nil {
		return fmt.Errorf("cache index unavailable for %s", cfg.CacheDir)
	}

	count, size, err := index.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache index: %w", err)
	}

	fmt.Printf("Cache directory: %s\n", cfg.CacheDir)
	fmt.Printf("Records:         %d\n", count)
	fmt.Printf("Total size:      %d bytes\n", size)

	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	index := store.Index()
	if index == nil {
		return fmt.Errorf("cache index unavailable")
	}

	entries, err := index.Entries()
	if err != nil {
		return fmt.Errorf("failed to read cache index: %w", err)
	}

	for _, e := range entries {
		fmt.Printf("%-16s  %8d bytes  %s  %s\n", e.Key, e.Size,
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Name)
	}

	return nil
}
