// Package flock provides an exclusive, non-blocking file lock that works on
// both Unix and Windows. prflow uses it to ensure only one run mutates a
// repository at a time; git's own index locking catches collisions late and
// with a worse error.
//
// Import rules:
//   - CAN import: std lib and x/sys only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package flock

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked is returned by Acquire when another process holds the lock.
var ErrLocked = errors.New("lock is held by another process")

// Lock is an acquired exclusive file lock. Release it when done; the lock
// file itself is left in place for the next acquirer.
type Lock struct {
	file *os.File
}

// Acquire opens (creating if needed) the lock file at path and takes an
// exclusive non-blocking lock on it. Returns ErrLocked when the lock is
// already held elsewhere.
func Acquire(path string) (*Lock, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- callers pass controlled lock paths
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}

	if err := exclusive(file.Fd()); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return &Lock{file: file}, nil
}

// Release unlocks and closes the lock file. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlock(l.file.Fd())
	closeErr := l.file.Close()
	l.file = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
