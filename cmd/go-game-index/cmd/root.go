// Package cmd provides the CLI commands for go-game-index.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/natedelduca/go-game-index/internal/config"
	gierrors "github.com/natedelduca/go-game-index/internal/errors"
	"github.com/natedelduca/go-game-index/internal/lock"
	"github.com/natedelduca/go-game-index/internal/logging"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath  string
	logLevel    string
	logFormat   string
	debug       bool
	lockTimeout time.Duration
}

// NewRootCmd creates the root command for the go-game-index CLI.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "go-game-index",
		Short: "Split a game database into chunk files and index them by name",
		Long: `go-game-index turns one large JSON array of game records into
fixed-size chunk files plus a name index, so individual games can be
fetched without loading the whole dataset.

Run 'go-game-index split' to write the chunks, then 'go-game-index index'
to build the index, or 'go-game-index build' to do both.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setupLogging(cmd)
		},
	}

	cmd.SetVersionTemplate("go-game-index version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultFile, "config file path (.json, .yaml or .yml)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format: text or json")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "shorthand for --log-level=debug")
	cmd.PersistentFlags().DurationVar(&g.lockTimeout, "lock-timeout", lock.DefaultTimeout, "how long to wait for another run on the same data directory")

	cmd.AddCommand(newSplitCmd(g))
	cmd.AddCommand(newIndexCmd(g))
	cmd.AddCommand(newBuildCmd(g))
	cmd.AddCommand(newInitCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprint(root.ErrOrStderr(), gierrors.FormatForCLI(err))
		return gierrors.ExitCode(err)
	}
	return gierrors.ExitOK
}

func (g *globals) setupLogging(cmd *cobra.Command) error {
	cfg := logging.DefaultConfig()
	cfg.Level = g.logLevel
	cfg.Format = g.logFormat
	cfg.Output = cmd.ErrOrStderr()
	if g.debug {
		cfg.Level = "debug"
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the config file. A missing default file falls back to
// defaults; a missing file named explicitly with --config is an error.
func (g *globals) loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := resolvePath(g.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
			slog.Debug("no config file, using defaults", slog.String("path", path))
			return config.Default(), nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return config.Config{}, gierrors.ConfigError(
				fmt.Sprintf("config file %s not found", path), err).
				WithSuggestion("run `go-game-index init` to create one")
		}
		return config.Config{}, err
	}
	slog.Debug("config loaded", slog.String("path", path))
	return cfg, nil
}

func resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
