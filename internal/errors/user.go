package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// This single source of truth ensures UserMessage and Actionable stay in sync.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrNotGitRepo,
		info: ErrorInfo{
			Message: "This command must be run inside a git repository.",
			Action:  "Change into a repository directory and retry.",
		},
	},
	{
		err: ErrGitOperation,
		info: ErrorInfo{
			Message: "A git command failed. The original output is included above.",
			Action:  "Inspect the repository state with 'git status' before retrying.",
		},
	},
	{
		err: ErrGitHubOperation,
		info: ErrorInfo{
			Message: "A GitHub operation via the gh CLI failed.",
			Action:  "Check 'gh auth status' and your network connection.",
		},
	},
	{
		err: ErrDetachedHead,
		info: ErrorInfo{
			Message: "HEAD is detached, so there is no current branch to operate on.",
			Action:  "Check out a branch, or use the detached-HEAD action to branch from here.",
		},
	},
	{
		err: ErrUnknownAction,
		info: ErrorInfo{
			Message: "The requested action is not a recognized action key.",
			Action:  "Run 'prflow state' to see the actions available right now.",
		},
	},
	{
		err: ErrActionNotAvailable,
		info: ErrorInfo{
			Message: "That action is not offered in the repository's current situation.",
			Action:  "Run 'prflow state' to see the actions available right now.",
		},
	},
	{
		err: ErrNoActionsAvailable,
		info: ErrorInfo{
			Message: "You appear to be inside a PR worktree; prflow cannot decide what to do here.",
			Action:  "Re-run from the main worktree of the repository.",
		},
	},
	{
		err: ErrPRNotFound,
		info: ErrorInfo{
			Message: "The pull request could not be found.",
			Action:  "Verify the PR number or branch name with 'gh pr list'.",
		},
	},
	{
		err: ErrStashNotFound,
		info: ErrorInfo{
			Message: "A stash created by prflow could not be located.",
			Action:  "Inspect 'git stash list'; your changes may still be there.",
		},
	},
	{
		err: ErrWorktreeExists,
		info: ErrorInfo{
			Message: "The worktree directory already exists.",
			Action:  "Remove the stale directory or run 'git worktree prune'.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "The configuration file contains an invalid value.",
			Action:  "Fix the reported key in .prflow/config.yaml.",
		},
	},
}

// UserMessage returns a user-friendly message for the given error.
// Falls back to the raw error text when no mapping exists.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Message
		}
	}
	return err.Error()
}

// Actionable returns a suggested next step for the given error, or an
// empty string when none is known.
func Actionable(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Action
		}
	}
	return ""
}
