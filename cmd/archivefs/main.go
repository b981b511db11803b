package main

import (
	"log/slog"
	"os"

	"github.com/elinorkade/archivefs/internal/config"
	"github.com/elinorkade/archivefs/internal/indexcache"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configLoadFailed", "err", err)
		return 1
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	var idx *indexcache.Store
	if cfg.IndexCacheDir != "" {
		idx, err = indexcache.Open(cfg.IndexCacheDir)
		if err != nil {
			slog.Error("indexCacheOpenFailed", "dir", cfg.IndexCacheDir, "err", err)
			return 1
		}
		defer idx.Close()
	}

	rootCmd := buildRootCommand(cfg, idx)
	rootCmd.AddCommand(buildLsCommand())
	rootCmd.AddCommand(buildCatCommand())
	rootCmd.AddCommand(buildStatCommand())
	rootCmd.AddCommand(buildExtractCommand())
	rootCmd.AddCommand(buildProbeCommand())
	rootCmd.AddCommand(buildFetchCommand())

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
