package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/flock"
)

// runLockPath returns the run lock file for a repository. The file lives in
// the system temp dir keyed by a digest of the repository root, so runs in
// different repositories never contend and the repository itself stays
// untouched.
func runLockPath(repoRoot string) string {
	sum := sha256.Sum256([]byte(repoRoot))
	return filepath.Join(os.TempDir(), "prflow-"+hex.EncodeToString(sum[:8])+".lock")
}

// acquireRunLock takes the per-repository run lock.
func acquireRunLock(repoRoot string) (*flock.Lock, error) {
	lock, err := flock.Acquire(runLockPath(repoRoot))
	if err != nil {
		return nil, prferrors.Wrap(err, "another prflow run may be active")
	}
	return lock, nil
}
