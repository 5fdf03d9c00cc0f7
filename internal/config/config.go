// Package config provides configuration management for prflow with layered
// precedence.
//
// Configuration sources are loaded in the following order (highest precedence
// first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (PRFLOW_* prefix)
//  3. Project config (.prflow/config.yaml)
//  4. Global config (~/.prflow/config.yaml)
//  5. Built-in defaults
//
// Each higher level overrides the lower level for the same key.
package config

import "time"

// Config is the root configuration structure for prflow.
type Config struct {
	// Git contains settings for git operations and branch naming.
	Git GitConfig `yaml:"git" mapstructure:"git"`

	// Worktree contains settings for PR worktree placement.
	Worktree WorktreeConfig `yaml:"worktree" mapstructure:"worktree"`

	// PR contains settings for pull request creation.
	PR PRConfig `yaml:"pr" mapstructure:"pr"`

	// Log contains logging settings.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// GitConfig contains settings for git operations.
type GitConfig struct {
	// BaseBranch is the branch pull requests target.
	// Default: "main"
	BaseBranch string `yaml:"base_branch" mapstructure:"base_branch"`

	// Remote is the remote branches are pushed to.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote"`

	// BranchPrefix prefixes generated branch names, e.g. "feat" produces
	// branches like feat/add-login-flow.
	// Default: "feat"
	BranchPrefix string `yaml:"branch_prefix" mapstructure:"branch_prefix"`

	// Timeout is the maximum duration for a single git command.
	// Default: 2 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// WorktreeConfig contains settings for PR worktree placement.
type WorktreeConfig struct {
	// Dir is the directory PR worktrees are created under.
	// Empty means siblings of the repository root.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// PRConfig contains settings for pull request creation.
type PRConfig struct {
	// Draft opens new pull requests as drafts.
	// Default: false
	Draft bool `yaml:"draft" mapstructure:"draft"`

	// Timeout is the maximum duration for a single gh command.
	// Default: 5 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum level written to the log file
	// (trace, debug, info, warn, error).
	// Default: "info"
	Level string `yaml:"level" mapstructure:"level"`
}
