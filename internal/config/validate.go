package config

import (
	"fmt"
	"strings"

	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// validLogLevels are the levels accepted by Log.Level.
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks a Config for values that would break later operations.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil: %w", prferrors.ErrConfigInvalid)
	}

	if strings.TrimSpace(cfg.Git.BaseBranch) == "" {
		return fmt.Errorf("git.base_branch must not be empty: %w", prferrors.ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Git.Remote) == "" {
		return fmt.Errorf("git.remote must not be empty: %w", prferrors.ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Git.BranchPrefix) == "" {
		return fmt.Errorf("git.branch_prefix must not be empty: %w", prferrors.ErrConfigInvalid)
	}
	if strings.ContainsAny(cfg.Git.BranchPrefix, " /") {
		return fmt.Errorf("git.branch_prefix %q must not contain spaces or slashes: %w",
			cfg.Git.BranchPrefix, prferrors.ErrConfigInvalid)
	}
	if cfg.Git.Timeout < 0 {
		return fmt.Errorf("git.timeout must not be negative: %w", prferrors.ErrConfigInvalid)
	}
	if cfg.PR.Timeout < 0 {
		return fmt.Errorf("pr.timeout must not be negative: %w", prferrors.ErrConfigInvalid)
	}
	if cfg.Log.Level != "" && !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level %q is not a known level: %w", cfg.Log.Level, prferrors.ErrConfigInvalid)
	}

	return nil
}
