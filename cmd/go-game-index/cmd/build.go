package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/natedelduca/go-game-index/internal/output"
)

func newBuildCmd(g *globals) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Split the source and index the chunks in one run",
		Long: `Build runs split and then index under a single lock, so no other
go-game-index run can touch the data directory in between.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.resolve(cmd, f)
			if err != nil {
				return err
			}
			if err := cfg.ChunkOptions().Validate(); err != nil {
				return err
			}
			if err := cfg.IndexOptions().Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			release, err := g.acquire(ctx, cfg.ChunksDir)
			if err != nil {
				return err
			}
			defer release()

			p := output.NewPrinter(cmd.OutOrStdout())
			if _, err := runSplit(ctx, cfg, p); err != nil {
				return err
			}
			p.Line("")
			_, err = runIndex(ctx, cfg, p)
			return err
		},
	}

	f.registerShared(cmd)
	f.registerSplit(cmd)
	f.registerIndex(cmd)

	return cmd
}
