package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is an advisory cross-process lock on a data directory.
type Lock struct {
	flock  *flock.Flock
	locked bool
}

// NewLock creates a lock backed by <dir>/.lock.
func NewLock(dir string) *Lock {
	return &Lock{flock: flock.New(filepath.Join(dir, ".lock"))}
}

// TryLock attempts to acquire the lock without blocking.
// Returns false if another process holds it.
func (l *Lock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.flock.Path()), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. It is safe to call on an unlocked Lock.
func (l *Lock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	return l.flock.Unlock()
}
