// Package errors provides centralized error handling for prflow.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrGitOperation indicates that a git command (status, stash, commit,
	// push, worktree, etc.) failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrGitHubOperation indicates that a GitHub operation via the gh CLI
	// (PR creation, PR lookup, remote branch check) failed.
	ErrGitHubOperation = errors.New("github operation failed")

	// ErrNotGitRepo indicates that a git repository is required but not found.
	ErrNotGitRepo = errors.New("not in a git repository")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrBranchExists indicates an attempt to create a branch that already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrDetachedHead indicates an operation that requires a checked-out
	// branch was attempted in detached HEAD state.
	ErrDetachedHead = errors.New("repository is in detached HEAD state")

	// ErrUnknownAction indicates an action key outside the closed action set.
	ErrUnknownAction = errors.New("unknown action")

	// ErrActionNotAvailable indicates a valid action key was requested in a
	// scenario whose choice list does not offer it.
	ErrActionNotAvailable = errors.New("action not available for this scenario")

	// ErrNoActionsAvailable indicates the current scenario has no automatic
	// handling (e.g., running inside a PR worktree) and the caller must
	// re-target the main worktree or give explicit instructions.
	ErrNoActionsAvailable = errors.New("no actions available for this scenario")

	// ErrPRNotFound indicates the requested pull request does not exist.
	ErrPRNotFound = errors.New("pull request not found")

	// ErrStashNotFound indicates a stash created earlier could not be
	// located in the stash list.
	ErrStashNotFound = errors.New("stash not found")

	// ErrWorktreeExists indicates the worktree path already exists.
	ErrWorktreeExists = errors.New("worktree path already exists")

	// ErrMenuCanceled indicates the user canceled an interactive menu.
	ErrMenuCanceled = errors.New("menu canceled")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrCommandFailed indicates that a subprocess execution failed.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")
)
