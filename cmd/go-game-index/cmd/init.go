package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/natedelduca/go-game-index/internal/config"
	gierrors "github.com/natedelduca/go-game-index/internal/errors"
	"github.com/natedelduca/go-game-index/internal/output"
	"github.com/natedelduca/go-game-index/internal/ui"
)

func newInitCmd(g *globals) *cobra.Command {
	var (
		force       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default paths",
		Long: `Init writes the config file named by --config. On a terminal it asks
for the paths and chunk size first; pass --interactive=false to write the
defaults directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolvePath(g.configPath)
			if _, err := os.Stat(path); err == nil && !force {
				return gierrors.Configf("config file %s already exists", path).
					WithSuggestion("pass --force to overwrite it")
			}

			cfg := config.Default()
			if interactive || (!cmd.Flags().Changed("interactive") && ui.Interactive()) {
				var err error
				cfg, err = ui.RunInitForm(cfg)
				if err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ChunkOptions().Validate(); err != nil {
				return err
			}

			if err := config.Save(path, cfg); err != nil {
				return gierrors.IOError("write", path, err)
			}

			output.NewPrinter(cmd.OutOrStdout()).Success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "ask for values with a form (default: when attached to a terminal)")

	return cmd
}
