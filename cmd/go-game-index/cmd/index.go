package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/natedelduca/go-game-index/internal/config"
	"github.com/natedelduca/go-game-index/internal/discover"
	"github.com/natedelduca/go-game-index/internal/index"
	"github.com/natedelduca/go-game-index/internal/output"
)

func newIndexCmd(g *globals) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the game name index from existing chunk files",
		Long: `Index reads every chunk file in the chunks directory and writes a JSON
object mapping each lowercased game name to the chunk files that contain
it. The chunks directory must exist; run 'go-game-index split' first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.resolve(cmd, f)
			if err != nil {
				return err
			}
			if err := cfg.IndexOptions().Validate(); err != nil {
				return err
			}
			// Checked before locking so a missing directory has no side effects.
			if err := discover.RequireDir(cfg.ChunksDir); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			release, err := g.acquire(ctx, cfg.ChunksDir)
			if err != nil {
				return err
			}
			defer release()

			_, err = runIndex(ctx, cfg, output.NewPrinter(cmd.OutOrStdout()))
			return err
		},
	}

	f.registerShared(cmd)
	f.registerIndex(cmd)

	return cmd
}

// runIndex builds the index and prints the summary.
func runIndex(ctx context.Context, cfg config.Config, p *output.Printer) (index.Result, error) {
	res, err := index.Build(ctx, cfg.IndexOptions())
	if err != nil {
		return res, err
	}

	for _, name := range res.Skipped {
		p.Warning("skipped malformed chunk %s", name)
	}

	p.Success("Created index with %d unique game names", res.Entries)
	p.KeyValue("Chunk files indexed", res.Files)
	p.KeyValue("Records scanned", res.Records)
	if res.Unnamed > 0 {
		p.KeyValue("Records without a name", res.Unnamed)
	}
	p.KeyValue("Index file", res.Path)

	return res, nil
}
