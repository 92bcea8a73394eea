package chunk

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gierrors "github.com/natedelduca/go-game-index/internal/errors"
)

func writeSource(t *testing.T, dir string, n int) string {
	t.Helper()
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{"GameName": fmt.Sprintf("Game %d", i), "Seq": i}
	}
	data, err := json.Marshal(items)
	require.NoError(t, err)
	path := filepath.Join(dir, "database.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readChunk(t *testing.T, path string) []json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		size     int
		expected []Span
	}{
		{"empty", 0, 100, nil},
		{"smaller than size", 3, 100, []Span{{0, 3}}},
		{"exact multiple", 4, 2, []Span{{0, 2}, {2, 4}}},
		{"remainder", 5, 2, []Span{{0, 2}, {2, 4}, {4, 5}}},
		{"size one", 3, 1, []Span{{0, 1}, {1, 2}, {2, 3}}},
		{"invalid size", 3, 0, nil},
		{"huge size", 3, math.MaxInt, []Span{{0, 3}}},
		{"huge size with remainder", 5, math.MaxInt - 1, []Span{{0, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Plan(tt.total, tt.size))
		})
	}
}

func TestPlan_CoversEveryRecordOnce(t *testing.T) {
	for total := 0; total <= 37; total++ {
		for size := 1; size <= 11; size++ {
			spans := Plan(total, size)
			assert.Len(t, spans, (total+size-1)/size, "total=%d size=%d", total, size)

			next := 0
			for _, s := range spans {
				assert.Equal(t, next, s.Start)
				assert.LessOrEqual(t, s.Len(), size)
				assert.Positive(t, s.Len())
				next = s.End
			}
			assert.Equal(t, total, next)
		}
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "chunk_001.json", Name(1))
	assert.Equal(t, "chunk_042.json", Name(42))
	assert.Equal(t, "chunk_999.json", Name(999))
	assert.Equal(t, "chunk_1000.json", Name(1000))
}

func TestOptions_Validate(t *testing.T) {
	valid := Options{SourcePath: "database.json", OutputDir: "data/chunks", ChunkSize: 100}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero chunk size", func(o *Options) { o.ChunkSize = 0 }},
		{"negative chunk size", func(o *Options) { o.ChunkSize = -5 }},
		{"no source", func(o *Options) { o.SourcePath = "" }},
		{"no output", func(o *Options) { o.OutputDir = "" }},
		{"negative workers", func(o *Options) { o.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			assert.ErrorIs(t, opts.Validate(), gierrors.ErrConfigInvalid)
		})
	}
}

func TestSplit_ChunkCountAndContents(t *testing.T) {
	// Given: a source of 250 records
	dir := t.TempDir()
	src := writeSource(t, dir, 250)
	out := filepath.Join(dir, "data", "chunks")

	// When: splitting into chunks of 100
	res, err := Split(context.Background(), Options{SourcePath: src, OutputDir: out, ChunkSize: 100})

	// Then: three chunks of 100, 100, 50 are written in order
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count())
	assert.Equal(t, 250, res.TotalRecords)
	assert.Equal(t, 100, res.ChunkSize)
	assert.True(t, filepath.IsAbs(res.Dir))

	want := []File{
		{Name: "chunk_001.json", Records: 100},
		{Name: "chunk_002.json", Records: 100},
		{Name: "chunk_003.json", Records: 50},
	}
	for i, f := range res.Chunks {
		assert.Equal(t, want[i].Name, f.Name)
		assert.Equal(t, want[i].Records, f.Records)
		assert.True(t, filepath.IsAbs(f.Path), "path %s should be absolute", f.Path)
		assert.FileExists(t, f.Path)
	}

	// Concatenating chunks in name order reproduces the source.
	var all []json.RawMessage
	for _, f := range res.Chunks {
		all = append(all, readChunk(t, f.Path)...)
	}
	require.Len(t, all, 250)
	for i, raw := range all {
		var rec struct{ Seq int }
		require.NoError(t, json.Unmarshal(raw, &rec))
		assert.Equal(t, i, rec.Seq)
	}
}

func TestSplit_PreservesRecordBytes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "database.json")
	require.NoError(t, os.WriteFile(src, []byte(`[{"Zeta":1.50,"GameName":"Chess","CompressionResults":[]}]`), 0o644))

	res, err := Split(context.Background(), Options{SourcePath: src, OutputDir: filepath.Join(dir, "chunks"), ChunkSize: 2})

	require.NoError(t, err)
	data, err := os.ReadFile(res.Chunks[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"Zeta\": 1.50,\n    \"GameName\": \"Chess\",\n    \"CompressionResults\": []\n  }\n]\n", string(data))
}

func TestSplit_EmptySource(t *testing.T) {
	// Given: an empty array
	dir := t.TempDir()
	src := writeSource(t, dir, 0)
	out := filepath.Join(dir, "chunks")

	// When: splitting
	res, err := Split(context.Background(), Options{SourcePath: src, OutputDir: out, ChunkSize: 100})

	// Then: no chunks, no error, output directory still exists
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count())
	assert.Equal(t, 0, res.TotalRecords)
	assert.DirExists(t, out)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSplit_MaxChunkSize(t *testing.T) {
	// Given: a chunk size far larger than the source
	dir := t.TempDir()
	src := writeSource(t, dir, 3)
	out := filepath.Join(dir, "chunks")

	// When: splitting with the largest possible chunk size
	res, err := Split(context.Background(), Options{SourcePath: src, OutputDir: out, ChunkSize: math.MaxInt})

	// Then: everything lands in a single chunk
	require.NoError(t, err)
	require.Equal(t, 1, res.Count())
	assert.Equal(t, "chunk_001.json", res.Chunks[0].Name)
	assert.Equal(t, 3, res.Chunks[0].Records)
	assert.Equal(t, math.MaxInt, res.ChunkSize)
	assert.Len(t, readChunk(t, filepath.Join(out, "chunk_001.json")), 3)
}

func TestSplit_RejectsBadChunkSizeBeforeIO(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "chunks")

	_, err := Split(context.Background(), Options{SourcePath: filepath.Join(dir, "missing.json"), OutputDir: out, ChunkSize: 0})

	assert.ErrorIs(t, err, gierrors.ErrConfigInvalid)
	assert.NoDirExists(t, out)
}

func TestSplit_MissingSource(t *testing.T) {
	dir := t.TempDir()

	_, err := Split(context.Background(), Options{SourcePath: filepath.Join(dir, "missing.json"), OutputDir: filepath.Join(dir, "chunks"), ChunkSize: 10})

	require.Error(t, err)
	assert.Equal(t, gierrors.ErrCodeFileNotFound, gierrors.GetCode(err))
}

func TestSplit_MalformedSource(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `[{"GameName": "Chess"`},
		{"object root", `{"GameName": "Chess"}`},
		{"null root", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "database.json")
			require.NoError(t, os.WriteFile(src, []byte(tt.content), 0o644))
			out := filepath.Join(dir, "chunks")

			_, err := Split(context.Background(), Options{SourcePath: src, OutputDir: out, ChunkSize: 10})

			assert.ErrorIs(t, err, gierrors.ErrSourceMalformed)
			assert.NoDirExists(t, out)
		})
	}
}

func TestSplit_ParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, 1234)

	seq, err := Split(context.Background(), Options{SourcePath: src, OutputDir: filepath.Join(dir, "seq"), ChunkSize: 7})
	require.NoError(t, err)
	par, err := Split(context.Background(), Options{SourcePath: src, OutputDir: filepath.Join(dir, "par"), ChunkSize: 7, Workers: 8})
	require.NoError(t, err)

	require.Equal(t, seq.Count(), par.Count())
	for i := range seq.Chunks {
		a, err := os.ReadFile(seq.Chunks[i].Path)
		require.NoError(t, err)
		b, err := os.ReadFile(par.Chunks[i].Path)
		require.NoError(t, err)
		assert.Equal(t, a, b, "chunk %s differs", seq.Chunks[i].Name)
	}
}

func TestSplit_OverwritesAndPrunes(t *testing.T) {
	// Given: a previous run that produced five chunks
	dir := t.TempDir()
	out := filepath.Join(dir, "chunks")
	src := writeSource(t, dir, 5)
	_, err := Split(context.Background(), Options{SourcePath: src, OutputDir: out, ChunkSize: 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(out, "notes.json"), []byte("{}"), 0o644))

	// When: rerunning with a larger chunk size without pruning
	src = writeSource(t, dir, 5)
	_, err = Split(context.Background(), Options{SourcePath: src, OutputDir: out, ChunkSize: 2})
	require.NoError(t, err)

	// Then: stale chunks survive, as in a plain overwrite
	assert.FileExists(t, filepath.Join(out, "chunk_005.json"))
	assert.Len(t, readChunk(t, filepath.Join(out, "chunk_001.json")), 2)

	// When: rerunning with pruning
	res, err := Split(context.Background(), Options{SourcePath: src, OutputDir: out, ChunkSize: 2, Prune: true})

	// Then: only the new chunk set and unrelated files remain
	require.NoError(t, err)
	assert.Equal(t, []string{"chunk_004.json", "chunk_005.json"}, res.Pruned)
	assert.NoFileExists(t, filepath.Join(out, "chunk_004.json"))
	assert.FileExists(t, filepath.Join(out, "chunk_003.json"))
	assert.FileExists(t, filepath.Join(out, "notes.json"))
}

func TestSplit_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Split(ctx, Options{SourcePath: src, OutputDir: filepath.Join(dir, "chunks"), ChunkSize: 1})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadSource_ErrorMentionsPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "database.json")
	require.NoError(t, os.WriteFile(src, []byte("not json"), 0o644))

	_, err := LoadSource(src)

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), src))
}
