package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/natedelduca/go-game-index/internal/chunk"
	"github.com/natedelduca/go-game-index/internal/discover"
	gierrors "github.com/natedelduca/go-game-index/internal/errors"
	"github.com/natedelduca/go-game-index/internal/index"
)

const (
	// DefaultFile is the default config filename in the working directory.
	DefaultFile = ".go-game-index.json"
)

// Config captures the paths and knobs shared by split and index runs.
type Config struct {
	SourcePath    string `json:"sourcePath" yaml:"sourcePath"`
	ChunksDir     string `json:"chunksDir" yaml:"chunksDir"`
	IndexPath     string `json:"indexPath" yaml:"indexPath"`
	ChunkSize     int    `json:"chunkSize" yaml:"chunkSize"`
	Pattern       string `json:"pattern" yaml:"pattern"`
	Workers       int    `json:"workers" yaml:"workers"`
	Prune         bool   `json:"prune" yaml:"prune"`
	SkipMalformed bool   `json:"skipMalformed" yaml:"skipMalformed"`
}

// Load reads configuration from the provided path. Keys missing from the file
// keep their defaults. If the file does not exist, the defaults and an error
// wrapping os.ErrNotExist are returned to allow callers to fall back.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		return cfg, gierrors.IOError("read", path, err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, gierrors.New(gierrors.ErrCodeConfigParse,
			fmt.Sprintf("parse config file %s", path), err)
	}

	return cfg, nil
}

// Save writes the configuration to disk, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Default returns the standard layout: database.json in the working
// directory, chunks under data/chunks and the index at
// data/game_index.json.
func Default() Config {
	return Config{
		SourcePath: "database.json",
		ChunksDir:  filepath.Join("data", "chunks"),
		IndexPath:  filepath.Join("data", index.DefaultFileName),
		ChunkSize:  chunk.DefaultChunkSize,
		Pattern:    discover.DefaultPattern,
		Workers:    1,
	}
}

// Validate checks the fields shared by every phase. Phase-specific checks
// live in chunk.Options.Validate and index.Options.Validate.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ChunksDir) == "" {
		return gierrors.Configf("chunksDir is required")
	}
	if c.Workers < 0 {
		return gierrors.Configf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// ChunkOptions returns the Split options for this configuration.
func (c Config) ChunkOptions() chunk.Options {
	return chunk.Options{
		SourcePath: c.SourcePath,
		OutputDir:  c.ChunksDir,
		ChunkSize:  c.ChunkSize,
		Workers:    c.Workers,
		Prune:      c.Prune,
	}
}

// IndexOptions returns the Build options for this configuration.
func (c Config) IndexOptions() index.Options {
	return index.Options{
		ChunksDir:     c.ChunksDir,
		IndexPath:     c.IndexPath,
		Pattern:       c.Pattern,
		Workers:       c.Workers,
		SkipMalformed: c.SkipMalformed,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
