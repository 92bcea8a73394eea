// Package index builds the game name index over a directory of chunk files.
//
// The index maps a normalized game name to the chunk file names holding a
// record with that name. A file name is appended once per matching record,
// so a name occurring twice in one chunk lists that chunk twice.
package index

import (
	"context"
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

// DefaultFileName is the index file name inside the data directory.
const DefaultFileName = "game_index.json"

// Index maps a normalized game name to chunk file names in append order.
type Index map[string][]string

// Add appends file to the list for name.
func (ix Index) Add(name, file string) {
	ix[name] = append(ix[name], file)
}

// Len returns the number of distinct names.
func (ix Index) Len() int { return len(ix) }

// Options configures a Build run.
type Options struct {
	ChunksDir string
	IndexPath string
	// Pattern selects chunk files by base name. Empty means discover.DefaultPattern.
	Pattern string
	// Workers bounds concurrent chunk reads. Values below 1 mean 1.
	Workers int
	// SkipMalformed logs and skips unreadable chunks instead of failing.
	SkipMalformed bool
}

func (o Options) pattern() string {
	if o.Pattern == "" {
		return discover.DefaultPattern
	}
	return o.Pattern
}

// Validate checks the options without touching the filesystem.
func (o Options) Validate() error {
	if o.ChunksDir == "" {
		return gierrors.Configf("chunks directory is required")
	}
	if o.IndexPath == "" {
		return gierrors.Configf("index path is required")
	}
	if o.Workers < 0 {
		return gierrors.Configf("workers must not be negative, got %d", o.Workers)
	}
	return discover.ValidatePattern(o.pattern())
}

// Result summarises a Build run.
type Result struct {
	Path    string
	Entries int
	Files   int
	Records int
	// Unnamed counts records skipped for having no usable name.
	Unnamed int
	// Skipped lists malformed chunk files ignored under SkipMalformed.
	Skipped []string
}

// chunkNames is what one chunk file contributes: the normalized name of
// each named record, in record order.
type chunkNames struct {
	names   []string
	records int
	err     error
}

// Build scans opts.ChunksDir and writes the index to opts.IndexPath.
// It returns an ErrChunksDirMissing error, and writes nothing, when the
// chunk directory does not exist.
func Build(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if err := discover.RequireDir(opts.ChunksDir); err != nil {
		return Result{}, err
	}

	path, err := filepath.Abs(opts.IndexPath)
	if err != nil {
		return Result{}, gierrors.IOError("resolve", opts.IndexPath, err)
	}

	files, err := discover.Files(opts.ChunksDir, opts.pattern())
	if err != nil {
		return Result{}, gierrors.IOError("read", opts.ChunksDir, err)
	}
	files = withoutPath(files, path)

	ix, res, err := Collect(ctx, files, opts.Workers, opts.SkipMalformed)
	if err != nil {
		return Result{}, err
	}

	if err := output.WriteJSON(path, ix); err != nil {
		return Result{}, gierrors.IOError("write", path, err)
	}
	res.Path = path

	slog.Info("index written",
		slog.String("path", path),
		slog.Int("entries", res.Entries),
		slog.Int("files", res.Files),
		slog.Int("records", res.Records))

	return res, nil
}

// Collect reads the given chunk files and accumulates their names. Files
// may be read concurrently but are merged in the order given, so the result
// does not depend on workers.
func Collect(ctx context.Context, files []discover.File, workers int, skipMalformed bool) (Index, Result, error) {
	parsed := make([]chunkNames, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = readChunk(f)
			err := parsed[i].err
			if err == nil || (skipMalformed && errors.Is(err, gierrors.ErrChunkMalformed)) {
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Result{}, err
	}

	ix := make(Index)
	var res Result
	for i, f := range files {
		c := parsed[i]
		if c.err != nil {
			slog.Warn("skipping malformed chunk",
				slog.String("path", f.Path),
				slog.String("error", c.err.Error()))
			res.Skipped = append(res.Skipped, f.Name)
			continue
		}
		for _, name := range c.names {
			ix.Add(name, f.Name)
		}
		res.Files++
		res.Records += c.records
		res.Unnamed += c.records - len(c.names)
	}
	res.Entries = ix.Len()

	return ix, res, nil
}

// withoutPath drops the index file itself when it lives among the chunks.
func withoutPath(files []discover.File, path string) []discover.File {
	out := files[:0]
	for _, f := range files {
		if abs, err := filepath.Abs(f.Path); err == nil && abs == path {
			continue
		}
		out = append(out, f)
	}
	return out
}

func readChunk(f discover.File) chunkNames {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return chunkNames{err: gierrors.IOError("read", f.Path, err)}
	}

	recs, err := record.DecodeArray(data)
	if err != nil {
		return chunkNames{err: gierrors.New(gierrors.ErrCodeChunkMalformed,
			fmt.Sprintf("parse chunk %s", f.Path), err).
			WithDetail("file", f.Name).
			WithSuggestion("rerun `go-game-index split`, or pass --skip-malformed")}
	}

	out := chunkNames{records: len(recs)}
	for _, rec := range recs {
		if name, ok := rec.Name(); ok {
			out.names = append(out.names, name)
		}
	}
	return out
}
