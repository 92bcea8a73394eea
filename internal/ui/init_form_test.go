package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natedelduca/go-game-index/internal/config"
	gierrors "github.com/natedelduca/go-game-index/internal/errors"
)

func TestValidateChunkSize(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"100", true},
		{" 1 ", true},
		{"0", false},
		{"-3", false},
		{"ten", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateChunkSize(tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	assert.NoError(t, ValidateWorkers("0"))
	assert.NoError(t, ValidateWorkers("8"))
	assert.Error(t, ValidateWorkers("-1"))
	assert.Error(t, ValidateWorkers("many"))
}

func TestRequirePath(t *testing.T) {
	assert.NoError(t, requirePath("data/chunks"))
	assert.Error(t, requirePath("   "))
}

func TestInitAnswers_Apply(t *testing.T) {
	// Given: answers with surrounding whitespace
	a := initAnswers{
		source:    " games.json ",
		chunksDir: "out/chunks",
		indexPath: "out/game_index.json",
		chunkSize: " 25 ",
		workers:   "4",
		prune:     true,
	}

	// When: applying them to the defaults
	cfg, err := a.apply(config.Default())

	// Then: values are trimmed and parsed, untouched fields keep defaults
	require.NoError(t, err)
	assert.Equal(t, "games.json", cfg.SourcePath)
	assert.Equal(t, "out/chunks", cfg.ChunksDir)
	assert.Equal(t, "out/game_index.json", cfg.IndexPath)
	assert.Equal(t, 25, cfg.ChunkSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Prune)
	assert.Equal(t, config.Default().Pattern, cfg.Pattern)
}

func TestInitAnswers_ApplyRejectsNonNumbers(t *testing.T) {
	base := initAnswers{source: "s.json", chunksDir: "c", indexPath: "i.json", chunkSize: "10", workers: "1"}

	tests := []struct {
		name string
		edit func(*initAnswers)
	}{
		{"chunk size", func(a *initAnswers) { a.chunkSize = "ten" }},
		{"empty chunk size", func(a *initAnswers) { a.chunkSize = "" }},
		{"workers", func(a *initAnswers) { a.workers = "many" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base
			tt.edit(&a)

			cfg, err := a.apply(config.Default())

			require.ErrorIs(t, err, gierrors.ErrConfigInvalid)
			assert.Equal(t, config.Config{}, cfg)
		})
	}
}
