// Package lock serializes the split and index phases across processes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	gierrors "github.com/natedelduca/go-game-index/internal/errors"
)

// FileName is the lock file created in the data directory.
const FileName = ".go-game-index.lock"

// DefaultTimeout is how long Acquire waits for another run to finish.
const DefaultTimeout = 30 * time.Second

const retryDelay = 50 * time.Millisecond

// FileLock is an exclusive advisory lock on <dir>/.go-game-index.lock.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// New creates a lock for the given data directory.
func New(dir string) *FileLock {
	path := filepath.Join(dir, FileName)
	return &FileLock{
		path:  path,
		flock: flock.New(path),
	}
}

// ForChunksDir returns the lock shared by every phase working on chunksDir.
// The lock file lives in the parent, next to the index.
func ForChunksDir(chunksDir string) *FileLock {
	return New(filepath.Dir(filepath.Clean(chunksDir)))
}

// Acquire takes the lock, retrying until timeout elapses. A timeout <= 0
// tries exactly once.
func (l *FileLock) Acquire(ctx context.Context, timeout time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return gierrors.IOError("write", filepath.Dir(l.path), err)
	}

	var (
		ok  bool
		err error
	)
	if timeout <= 0 {
		ok, err = l.flock.TryLock()
	} else {
		tctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ok, err = l.flock.TryLockContext(tctx, retryDelay)
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = nil
		}
	}
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return gierrors.New(gierrors.ErrCodeLockTimeout,
			fmt.Sprintf("another go-game-index run holds %s", l.path), nil).
			WithSuggestion("wait for the other run to finish, or raise --lock-timeout")
	}

	l.locked = true
	return nil
}

// Unlock releases the lock. It is safe to call on an unlocked FileLock.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *FileLock) Path() string {
	return l.path
}

// IsLocked returns true if the lock is currently held.
func (l *FileLock) IsLocked() bool {
	return l.locked
}
