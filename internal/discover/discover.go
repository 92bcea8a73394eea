// Package discover finds chunk files on disk.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	gierrors "github.com/natedelduca/go-game-index/internal/errors"
)

// DefaultPattern matches every JSON file in a chunk directory.
const DefaultPattern = "*.json"

// File is a chunk file found in a directory.
type File struct {
	// Name is the bare file name, as stored in the index.
	Name string
	// Path is Name joined to the directory.
	Path string
}

// RequireDir checks that dir exists and is a directory. A missing directory
// yields an ErrChunksDirMissing error telling the operator to run split.
func RequireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gierrors.New(gierrors.ErrCodeChunksDirMissing,
				fmt.Sprintf("no chunks directory found at %s", dir), nil).
				WithSuggestion("run `go-game-index split` first")
		}
		return gierrors.IOError("read", dir, err)
	}
	if !info.IsDir() {
		return gierrors.Configf("chunks path %s is not a directory", dir)
	}
	return nil
}

// ValidatePattern reports whether pattern is usable by Files.
func ValidatePattern(pattern string) error {
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return gierrors.Configf("invalid chunk file pattern %q", pattern)
	}
	return nil
}

// Files returns the regular files directly inside dir whose base name
// matches pattern, sorted by name.
func Files(dir, pattern string) ([]File, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{Name: name, Path: path})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}
