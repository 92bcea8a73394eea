// Package chunk splits a JSON array of game records into numbered chunk files.
package chunk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/natedelduca/go-game-index/internal/discover"
	gierrors "github.com/natedelduca/go-game-index/internal/errors"
	"github.com/natedelduca/go-game-index/internal/output"
	"github.com/natedelduca/go-game-index/internal/record"
)

// DefaultChunkSize is the number of records per chunk when none is given.
const DefaultChunkSize = 100

// NamePattern matches every file name produced by Name.
const NamePattern = "chunk_*.json"

// Options configures a Split run.
type Options struct {
	SourcePath string
	OutputDir  string
	ChunkSize  int
	// Workers bounds concurrent chunk writes. Values below 1 mean 1.
	Workers int
	// Prune removes chunk files left over from a previous, larger run.
	Prune bool
}

// Validate checks the options without touching the filesystem.
func (o Options) Validate() error {
	if o.SourcePath == "" {
		return gierrors.Configf("source path is required")
	}
	if o.OutputDir == "" {
		return gierrors.Configf("chunks directory is required")
	}
	if o.ChunkSize <= 0 {
		return gierrors.Configf("chunk size must be positive, got %d", o.ChunkSize)
	}
	if o.Workers < 0 {
		return gierrors.Configf("workers must not be negative, got %d", o.Workers)
	}
	return nil
}

// Span is the half-open record range [Start, End) covered by one chunk.
type Span struct {
	Start int
	End   int
}

// Len returns the number of records in the span.
func (s Span) Len() int { return s.End - s.Start }

// Plan partitions total records into contiguous spans of at most size
// records. It returns ceil(total/size) spans; zero total yields none.
func Plan(total, size int) []Span {
	if total <= 0 || size <= 0 {
		return nil
	}
	// Written without total+size so a huge size cannot overflow.
	n := total / size
	if total%size != 0 {
		n++
	}
	spans := make([]Span, n)
	for i := range spans {
		start := i * size
		spans[i] = Span{Start: start, End: start + min(size, total-start)}
	}
	return spans
}

// Name returns the file name of the chunk with the given 1-based sequence
// number, zero-padded to at least three digits.
func Name(seq int) string {
	return fmt.Sprintf("chunk_%03d.json", seq)
}

// File describes one written chunk.
type File struct {
	Name    string
	Path    string
	Records int
}

// Result summarises a Split run.
type Result struct {
	Dir          string
	Chunks       []File
	TotalRecords int
	ChunkSize    int
	Pruned       []string
}

// Count returns the number of chunks written.
func (r Result) Count() int { return len(r.Chunks) }

// LoadSource reads and parses the whole source array into memory.
func LoadSource(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gierrors.IOError("read", path, err)
	}

	items, err := record.DecodeRaw(data)
	if err != nil {
		return nil, gierrors.New(gierrors.ErrCodeSourceMalformed,
			fmt.Sprintf("parse source %s", path), err).
			WithSuggestion("the source file must contain a single JSON array")
	}
	return items, nil
}

// Split reads the source array and writes it out as chunk files under
// opts.OutputDir. Paths in the result are absolute.
func Split(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	items, err := LoadSource(opts.SourcePath)
	if err != nil {
		return Result{}, err
	}

	dir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return Result{}, gierrors.IOError("resolve", opts.OutputDir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, gierrors.IOError("write", dir, err)
	}

	spans := Plan(len(items), opts.ChunkSize)
	files := make([]File, len(spans))
	for i, span := range spans {
		name := Name(i + 1)
		files[i] = File{Name: name, Path: filepath.Join(dir, name), Records: span.Len()}
	}

	slog.Debug("split planned",
		slog.String("source", opts.SourcePath),
		slog.String("dir", dir),
		slog.Int("records", len(items)),
		slog.Int("chunks", len(spans)),
		slog.Int("chunk_size", opts.ChunkSize))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, span := range spans {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := files[i]
			if err := output.WriteJSON(f.Path, items[span.Start:span.End]); err != nil {
				return gierrors.IOError("write", f.Path, err)
			}
			slog.Info("chunk written", slog.String("path", f.Path), slog.Int("records", f.Records))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		Dir:          dir,
		Chunks:       files,
		TotalRecords: len(items),
		ChunkSize:    opts.ChunkSize,
	}

	if opts.Prune {
		pruned, err := prune(dir, files)
		if err != nil {
			return res, err
		}
		res.Pruned = pruned
	}

	return res, nil
}

// prune deletes chunk files in dir that are not part of keep.
func prune(dir string, keep []File) ([]string, error) {
	wanted := make(map[string]struct{}, len(keep))
	for _, f := range keep {
		wanted[f.Name] = struct{}{}
	}

	existing, err := discover.Files(dir, NamePattern)
	if err != nil {
		return nil, gierrors.IOError("read", dir, err)
	}

	var removed []string
	for _, f := range existing {
		if _, ok := wanted[f.Name]; ok {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, gierrors.IOError("remove", f.Path, err)
		}
		slog.Info("stale chunk removed", slog.String("path", f.Path))
		removed = append(removed, f.Name)
	}
	return removed, nil
}
