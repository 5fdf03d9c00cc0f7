// Package state implements repository situation analysis for prflow: it
// inspects a working tree into a GitState snapshot, classifies the snapshot
// into a Scenario, resolves the ranked actions available for that scenario,
// and executes a chosen action's pre-branch side effects.
//
// Analyze, Classify and ResolveContext are read-only; only the Executor
// mutates the repository, and only through an injected git.Runner.
package state

import "github.com/mrz1836/prflow/internal/git"

// WorktreeKind identifies what kind of checkout the analysis ran in.
type WorktreeKind string

// Worktree kinds. Detection is based on the worktree's administrative name
// under .git/worktrees/, which is assigned at creation and survives renames
// of the checkout directory.
const (
	// WorktreeMain is the primary checkout of the repository.
	WorktreeMain WorktreeKind = "main_worktree"
	// WorktreePR is a secondary worktree created by prflow for a PR branch.
	WorktreePR WorktreeKind = "pr_worktree"
	// WorktreeOther is any other linked worktree.
	WorktreeOther WorktreeKind = "other"
)

// GitState is a snapshot of the repository situation at the instant of
// analysis. It is recomputed on demand and never cached across calls.
type GitState struct {
	// CurrentBranch is the checked-out branch, or "" in detached HEAD state.
	CurrentBranch string

	// BaseBranch is the branch the snapshot was analyzed against.
	BaseBranch string

	// WorktreeKind reports which kind of checkout the analysis ran in.
	WorktreeKind WorktreeKind

	// Ahead and Behind count commits relative to origin/<BaseBranch>.
	Ahead  int
	Behind int

	// SameAsBase is true when HEAD and origin/<BaseBranch> are the same commit.
	SameAsBase bool

	// AncestorOfBase is true when HEAD is an ancestor of origin/<BaseBranch>
	// but not the same commit, i.e. the branch has been merged already.
	AncestorOfBase bool

	// Staged and Unstaged list changed paths as of analysis time. Untracked
	// files are folded into Unstaged: for classification they are work that
	// would be lost just the same.
	Staged   []string
	Unstaged []string

	// LocalCommits lists commits present locally but not on the remote
	// base, newest first.
	LocalCommits []git.CommitSummary
}

// Detached reports whether the snapshot was taken in detached HEAD state.
func (s *GitState) Detached() bool {
	return s.CurrentBranch == ""
}

// OnBase reports whether the checked-out branch is the base branch.
func (s *GitState) OnBase() bool {
	return !s.Detached() && s.CurrentBranch == s.BaseBranch
}

// HasStagedChanges reports whether any changes are staged.
func (s *GitState) HasStagedChanges() bool {
	return len(s.Staged) > 0
}

// HasUnstagedChanges reports whether any unstaged or untracked changes exist.
func (s *GitState) HasUnstagedChanges() bool {
	return len(s.Unstaged) > 0
}

// HasUncommittedChanges reports whether the tree is dirty in any way.
func (s *GitState) HasUncommittedChanges() bool {
	return s.HasStagedChanges() || s.HasUnstagedChanges()
}

// HasLocalCommits reports whether commits exist locally that are not on the
// remote base.
func (s *GitState) HasLocalCommits() bool {
	return len(s.LocalCommits) > 0
}
