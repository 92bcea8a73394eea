package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/natedelduca/go-game-index/internal/config"
	gierrors "github.com/natedelduca/go-game-index/internal/errors"
)

// Interactive reports whether both stdin and stdout are terminals, which
// is required to show a form.
func Interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RunInitForm displays the Charmbracelet/huh form and returns current with
// the user's answers applied.
func RunInitForm(current config.Config) (config.Config, error) {
	a := initAnswers{
		source:    current.SourcePath,
		chunksDir: current.ChunksDir,
		indexPath: current.IndexPath,
		chunkSize: strconv.Itoa(current.ChunkSize),
		workers:   strconv.Itoa(current.Workers),
		prune:     current.Prune,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source JSON file").
				Description("A single JSON array of game records").
				Value(&a.source).
				Validate(requirePath),
			huh.NewInput().
				Title("Chunks directory").
				Value(&a.chunksDir).
				Validate(requirePath),
			huh.NewInput().
				Title("Index file").
				Value(&a.indexPath).
				Validate(requirePath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Records per chunk").
				Value(&a.chunkSize).
				Validate(ValidateChunkSize),
			huh.NewInput().
				Title("Parallel workers").
				Value(&a.workers).
				Validate(ValidateWorkers),
			huh.NewConfirm().
				Title("Remove stale chunk files after splitting?").
				Value(&a.prune),
		),
	)

	if err := form.Run(); err != nil {
		return config.Config{}, err
	}

	return a.apply(current)
}

// initAnswers holds the raw form values.
type initAnswers struct {
	source    string
	chunksDir string
	indexPath string
	chunkSize string
	workers   string
	prune     bool
}

// apply returns current with the answers parsed into it.
func (a initAnswers) apply(current config.Config) (config.Config, error) {
	chunkSize, err := strconv.Atoi(strings.TrimSpace(a.chunkSize))
	if err != nil {
		return config.Config{}, gierrors.ConfigError(fmt.Sprintf("chunk size %q is not a number", a.chunkSize), err)
	}
	workers, err := strconv.Atoi(strings.TrimSpace(a.workers))
	if err != nil {
		return config.Config{}, gierrors.ConfigError(fmt.Sprintf("workers %q is not a number", a.workers), err)
	}

	cfg := current
	cfg.SourcePath = strings.TrimSpace(a.source)
	cfg.ChunksDir = strings.TrimSpace(a.chunksDir)
	cfg.IndexPath = strings.TrimSpace(a.indexPath)
	cfg.ChunkSize = chunkSize
	cfg.Workers = workers
	cfg.Prune = a.prune
	return cfg, nil
}

func requirePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a path is required")
	}
	return nil
}

// ValidateChunkSize accepts a positive integer.
func ValidateChunkSize(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number greater than zero")
	}
	return nil
}

// ValidateWorkers accepts a non-negative integer.
func ValidateWorkers(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number, zero or more")
	}
	return nil
}
