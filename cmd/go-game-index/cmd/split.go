package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/natedelduca/go-game-index/internal/chunk"
	"github.com/natedelduca/go-game-index/internal/config"
	"github.com/natedelduca/go-game-index/internal/output"
)

func newSplitCmd(g *globals) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split the source JSON array into numbered chunk files",
		Long: `Split reads the whole source array into memory and writes it out as
chunk_001.json, chunk_002.json, ... with --chunk-size records each, in
source order. Existing chunks with the same names are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.resolve(cmd, f)
			if err != nil {
				return err
			}
			if err := cfg.ChunkOptions().Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			release, err := g.acquire(ctx, cfg.ChunksDir)
			if err != nil {
				return err
			}
			defer release()

			_, err = runSplit(ctx, cfg, output.NewPrinter(cmd.OutOrStdout()))
			return err
		},
	}

	f.registerShared(cmd)
	f.registerSplit(cmd)

	return cmd
}

// runSplit writes the chunks and prints the summary.
func runSplit(ctx context.Context, cfg config.Config, p *output.Printer) (chunk.Result, error) {
	res, err := chunk.Split(ctx, cfg.ChunkOptions())
	if err != nil {
		return res, err
	}

	for _, c := range res.Chunks {
		p.Line("Created %s with %d entries", c.Path, c.Records)
	}
	for _, name := range res.Pruned {
		p.Dim("Removed stale %s", name)
	}

	p.Header("Split complete")
	p.KeyValue("Total entries", res.TotalRecords)
	p.KeyValue("Number of chunks created", res.Count())
	p.KeyValue("Entries per chunk", res.ChunkSize)
	p.KeyValue("Chunks directory", res.Dir)

	return res, nil
}
