package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	prferrors "github.com/mrz1836/prflow/internal/errors"
)

const configFileMode = 0o600

// WriteDefault writes the built-in defaults as a YAML config file at path,
// creating parent directories as needed. Refuses to overwrite an existing
// file so a hand-edited config is never clobbered.
func WriteDefault(path string) error {
	if fileExists(path) {
		return fmt.Errorf("config file %s already exists: %w", path, prferrors.ErrConfigInvalid)
	}

	data, err := yaml.Marshal(writableConfig(DefaultConfig()))
	if err != nil {
		return prferrors.Wrap(err, "marshaling default config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return prferrors.Wrapf(err, "creating config directory for %s", path)
	}
	if err := os.WriteFile(path, data, configFileMode); err != nil {
		return prferrors.Wrapf(err, "writing config file %s", path)
	}
	return nil
}

// writableConfig converts a Config into a YAML-friendly shape: durations
// become strings like "2m0s" instead of raw nanosecond integers.
func writableConfig(cfg *Config) map[string]any {
	return map[string]any{
		"git": map[string]any{
			"base_branch":   cfg.Git.BaseBranch,
			"remote":        cfg.Git.Remote,
			"branch_prefix": cfg.Git.BranchPrefix,
			"timeout":       cfg.Git.Timeout.String(),
		},
		"worktree": map[string]any{
			"dir": cfg.Worktree.Dir,
		},
		"pr": map[string]any{
			"draft":   cfg.PR.Draft,
			"timeout": cfg.PR.Timeout.String(),
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
	}
}
