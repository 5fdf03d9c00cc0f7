// Package constants provides centralized constant values used throughout prflow.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by prflow for organizing data.
const (
	// AppHome is the hidden directory name where prflow stores its data.
	// This directory is created in the user's home directory.
	AppHome = ".prflow"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LogFileName is the name of the rotating log file.
	LogFileName = "prflow.log"

	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "config.yaml"
)

// Git defaults.
const (
	// DefaultBaseBranch is the branch new work is expected to land on.
	DefaultBaseBranch = "main"

	// DefaultRemote is the remote used for pushes and branch comparisons.
	DefaultRemote = "origin"

	// DefaultBranchPrefix is the prefix used for generated branch names.
	DefaultBranchPrefix = "feat"

	// WorktreeNamePrefix is the directory-name prefix for PR worktrees.
	// The prefix also names the worktree's administrative area under
	// .git/worktrees/, which is how PR worktrees are recognized after
	// the checkout directory has been moved or renamed.
	WorktreeNamePrefix = "pr-"

	// WIPCommitMessage is the fixed message used when uncommitted work is
	// folded onto an existing branch before PR creation.
	WIPCommitMessage = "work in progress"

	// StashMessagePrefix marks stashes created by prflow so they can be
	// found again by message rather than by volatile stash index.
	StashMessagePrefix = "prflow"
)

// Timeout configurations for subprocess operations.
const (
	// DefaultGitTimeout bounds a single git invocation.
	DefaultGitTimeout = 2 * time.Minute

	// DefaultGitHubTimeout bounds a single gh invocation, which may hit
	// the network.
	DefaultGitHubTimeout = 5 * time.Minute
)
