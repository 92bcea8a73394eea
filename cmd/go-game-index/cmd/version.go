package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current version of go-game-index. Set via ldflags at
// build time, or defaults to dev.
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "go-game-index version %s\n", Version)
			return err
		},
	}
}
