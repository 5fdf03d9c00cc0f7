// Package git provides Git and GitHub CLI operations for prflow.
// This file defines the Runner interface for git CLI operations.
package git

import "context"

// Runner defines the git operations the state analyzer, action executor and
// workflow orchestrator depend on. It is injected rather than called as a
// package-level binding so all decision logic is testable without a real
// repository.
//
// All operations run in the runner's working directory unless a method takes
// an explicit directory, and use context for cancellation.
type Runner interface {
	// Status returns the current working tree status including staged,
	// unstaged, and untracked files.
	Status(ctx context.Context) (*Status, error)

	// Add stages files for commit. If paths is empty, stages all changes.
	Add(ctx context.Context, paths []string) error

	// Stash shelves working tree changes and returns a stash reference
	// (e.g., "stash@{0}") that survives as the recovery handle. Returns an
	// empty reference when there was nothing to stash.
	Stash(ctx context.Context, opts StashOptions) (string, error)

	// StashPop applies the referenced stash to the working tree and drops it.
	StashPop(ctx context.Context, ref string) error

	// StashApply applies the referenced stash into workDir without dropping it.
	StashApply(ctx context.Context, ref, workDir string) error

	// StashDrop removes the referenced stash.
	StashDrop(ctx context.Context, ref string) error

	// Commit creates a commit with the given options and returns its SHA.
	Commit(ctx context.Context, opts CommitOptions) (string, error)

	// Push pushes a branch to the remote repository.
	// If setUpstream is true, sets the upstream tracking reference.
	Push(ctx context.Context, remote, branch string, setUpstream bool) error

	// Checkout switches the working tree to the given branch or ref.
	Checkout(ctx context.Context, ref string) error

	// CreateBranch creates a new branch at startPoint and checks it out.
	// If startPoint is empty, creates from current HEAD.
	// Returns an error if the branch already exists.
	CreateBranch(ctx context.Context, name, startPoint string) error

	// BranchExists checks if a local branch exists in the repository.
	BranchExists(ctx context.Context, name string) (bool, error)

	// CurrentBranch returns the name of the currently checked out branch,
	// or an empty string in detached HEAD state.
	CurrentBranch(ctx context.Context) (string, error)

	// HeadSHA returns the full SHA of HEAD.
	HeadSHA(ctx context.Context) (string, error)

	// RevParse resolves a ref to a SHA. Errors when the ref is unknown.
	RevParse(ctx context.Context, ref string) (string, error)

	// AheadBehind counts commits HEAD is ahead of and behind the given ref.
	AheadBehind(ctx context.Context, ref string) (ahead, behind int, err error)

	// IsAncestor reports whether ancestor is reachable from descendant.
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)

	// LocalCommits lists commits on HEAD that are not on the given ref,
	// newest first.
	LocalCommits(ctx context.Context, ref string) ([]CommitSummary, error)

	// HasUpstream reports whether the branch has an upstream tracking ref.
	HasUpstream(ctx context.Context, branch string) (bool, error)

	// Fetch downloads objects and refs from a remote repository without merging.
	Fetch(ctx context.Context, remote string) error

	// Worktrees lists all worktrees of the repository; the first entry is
	// the main worktree.
	Worktrees(ctx context.Context) ([]*WorktreeEntry, error)

	// LinkedWorktreeName returns the administrative name of the current
	// worktree (the directory name under .git/worktrees/), or an empty
	// string when running in the main worktree. The administrative name is
	// assigned at creation and survives moves and renames of the checkout
	// directory.
	LinkedWorktreeName(ctx context.Context) (string, error)

	// AddWorktree creates a worktree at path checked out to branch.
	AddWorktree(ctx context.Context, path, branch string, opts WorktreeAddOptions) error
}
