package config

import (
	"github.com/mrz1836/prflow/internal/constants"
)

// DefaultConfig returns a Config populated with the built-in defaults.
// These values match setDefaults exactly.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			BaseBranch:   constants.DefaultBaseBranch,
			Remote:       constants.DefaultRemote,
			BranchPrefix: constants.DefaultBranchPrefix,
			Timeout:      constants.DefaultGitTimeout,
		},
		Worktree: WorktreeConfig{
			Dir: "",
		},
		PR: PRConfig{
			Draft:   false,
			Timeout: constants.DefaultGitHubTimeout,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
