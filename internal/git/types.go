// Package git provides Git and GitHub CLI operations for prflow.
// This file defines types used by the Runner.
package git

// Status represents the current state of a Git working tree.
type Status struct {
	Staged    []FileChange // Files staged for commit
	Unstaged  []FileChange // Modified but not staged
	Untracked []string     // Untracked files
	Branch    string       // Current branch name (empty in detached HEAD)
	Ahead     int          // Commits ahead of upstream
	Behind    int          // Commits behind upstream
}

// FileChange represents a changed file in the working tree.
type FileChange struct {
	Path    string     // File path relative to repo root
	Status  ChangeType // Type of change (Added, Modified, Deleted, etc.)
	OldPath string     // For renamed files, the original path
}

// ChangeType represents the type of change for a file.
type ChangeType string

// Change type constants for git status.
const (
	ChangeAdded    ChangeType = "A"
	ChangeModified ChangeType = "M"
	ChangeDeleted  ChangeType = "D"
	ChangeRenamed  ChangeType = "R"
	ChangeCopied   ChangeType = "C"
	ChangeUnmerged ChangeType = "U"
)

// IsClean returns true if the working tree has no changes.
func (s *Status) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// HasStagedChanges returns true if there are staged changes ready to commit.
func (s *Status) HasStagedChanges() bool {
	return len(s.Staged) > 0
}

// HasUnstagedChanges returns true if there are unstaged changes.
func (s *Status) HasUnstagedChanges() bool {
	return len(s.Unstaged) > 0
}

// HasUntrackedFiles returns true if there are untracked files.
func (s *Status) HasUntrackedFiles() bool {
	return len(s.Untracked) > 0
}

// CommitSummary is a one-line description of a commit, used for listing
// commits present locally but not on the remote base.
type CommitSummary struct {
	SHA     string // Abbreviated commit hash
	Subject string // First line of the commit message
}

// WorktreeEntry describes one worktree from `git worktree list --porcelain`.
// The first entry returned by git is always the main worktree.
type WorktreeEntry struct {
	Path     string // Absolute path to the worktree
	Head     string // HEAD commit SHA
	Branch   string // Branch name, empty when detached
	Detached bool   // True when the worktree is in detached HEAD
}

// StashOptions configures a stash push.
type StashOptions struct {
	// Message labels the stash so it can be located again by subject.
	Message string
	// KeepIndex leaves staged changes in the index, stashing only the
	// working-tree delta.
	KeepIndex bool
	// IncludeUntracked stashes untracked files as well.
	IncludeUntracked bool
}

// CommitOptions configures a commit.
type CommitOptions struct {
	// Message is the commit message (required).
	Message string
	// AllowEmpty permits a commit with no staged changes.
	AllowEmpty bool
}

// WorktreeAddOptions configures worktree creation.
type WorktreeAddOptions struct {
	// CreateBranch creates the branch as part of worktree add (-b).
	CreateBranch bool
	// StartPoint is the commit-ish the new branch starts at when
	// CreateBranch is set. Empty means HEAD.
	StartPoint string
}
