package output

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// FileMode is the permission applied to every file written by WriteJSON.
const FileMode os.FileMode = 0o644

// WriteJSON writes v as two-space indented JSON to path. The file is written
// to a temporary sibling and renamed into place, so readers see either the
// previous content or the new content, never a partial file.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	pending, err := renameio.TempFile(dir, path)
	if err != nil {
		return err
	}
	defer pending.Cleanup()

	writer := bufio.NewWriter(pending)
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	if err := pending.Chmod(FileMode); err != nil {
		return err
	}

	return pending.CloseAtomicallyReplace()
}
