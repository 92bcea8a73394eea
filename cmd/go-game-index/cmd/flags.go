package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/natedelduca/go-game-index/internal/config"
	"github.com/natedelduca/go-game-index/internal/lock"
)

// runFlags are the per-run overrides. Only flags the user actually set
// replace config file values.
type runFlags struct {
	source        string
	chunks        string
	index         string
	chunkSize     int
	pattern       string
	workers       int
	prune         bool
	skipMalformed bool
}

func (f *runFlags) registerShared(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVar(&f.chunks, "chunks", d.ChunksDir, "chunks directory")
	cmd.Flags().IntVar(&f.workers, "workers", d.Workers, "parallel chunk reads/writes")
}

func (f *runFlags) registerSplit(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVar(&f.source, "source", d.SourcePath, "source JSON array file")
	cmd.Flags().IntVar(&f.chunkSize, "chunk-size", d.ChunkSize, "records per chunk")
	cmd.Flags().BoolVar(&f.prune, "prune", d.Prune, "remove stale chunk files after splitting")
}

func (f *runFlags) registerIndex(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVar(&f.index, "index", d.IndexPath, "index file path")
	cmd.Flags().StringVar(&f.pattern, "pattern", d.Pattern, "glob selecting chunk files")
	cmd.Flags().BoolVar(&f.skipMalformed, "skip-malformed", d.SkipMalformed, "skip unparsable chunk files instead of failing")
}

// apply copies every flag set on cmd into cfg.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.SourcePath = f.source
	}
	if changed("chunks") {
		cfg.ChunksDir = f.chunks
	}
	if changed("index") {
		cfg.IndexPath = f.index
	}
	if changed("chunk-size") {
		cfg.ChunkSize = f.chunkSize
	}
	if changed("pattern") {
		cfg.Pattern = f.pattern
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("prune") {
		cfg.Prune = f.prune
	}
	if changed("skip-malformed") {
		cfg.SkipMalformed = f.skipMalformed
	}
}

// resolve loads the config file, layers flags on top and validates the
// shared fields.
func (g *globals) resolve(cmd *cobra.Command, f *runFlags) (config.Config, error) {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}
	f.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// acquire takes the data directory lock for chunksDir and returns its
// release function.
func (g *globals) acquire(ctx context.Context, chunksDir string) (func(), error) {
	l := lock.ForChunksDir(chunksDir)
	if err := l.Acquire(ctx, g.lockTimeout); err != nil {
		return nil, err
	}
	slog.Debug("lock acquired", slog.String("path", l.Path()))
	return func() {
		if err := l.Unlock(); err != nil {
			slog.Warn("release lock", slog.String("error", err.Error()))
		}
	}, nil
}
