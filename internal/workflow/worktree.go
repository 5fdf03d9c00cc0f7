package workflow

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mrz1836/prflow/internal/constants"
	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/git"
)

// worktreePath computes where the dedicated worktree for a branch lives.
// Directory names carry the worktree prefix so git's admin area under
// .git/worktrees/ keeps the same marker; detection later reads that admin
// name, which survives the directory being moved or renamed.
func worktreePath(repoRoot, branch, parent string) string {
	if parent == "" {
		parent = filepath.Dir(repoRoot)
	}
	name := constants.WorktreeNamePrefix + strings.ReplaceAll(branch, "/", "-")
	return filepath.Join(parent, name)
}

// setupWorktreeForBranch creates a worktree for a branch that already exists
// on the remote, fetching first so the local checkout starts from the
// remote's tip.
func (w *Workflow) setupWorktreeForBranch(ctx context.Context, branch string, opts Options) (string, error) {
	if err := w.ops.Fetch(ctx, opts.Remote); err != nil {
		return "", prferrors.Wrapf(err, "fetching %s", opts.Remote)
	}

	wtPath := worktreePath(w.repoRoot, branch, opts.WorktreeParent)

	local, err := w.ops.BranchExists(ctx, branch)
	if err != nil {
		return "", prferrors.Wrapf(err, "checking for local branch %s", branch)
	}

	addOpts := git.WorktreeAddOptions{}
	if !local {
		addOpts.CreateBranch = true
		addOpts.StartPoint = opts.Remote + "/" + branch
	}
	if err := w.ops.AddWorktree(ctx, wtPath, branch, addOpts); err != nil {
		return "", prferrors.Wrapf(err, "creating worktree at %s", wtPath)
	}
	return wtPath, nil
}
