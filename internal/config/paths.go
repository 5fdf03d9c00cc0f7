package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/prflow/internal/constants"
)

// GlobalConfigDir returns the global prflow directory (~/.prflow).
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.AppHome), nil
}

// GlobalConfigPath returns the path of the global config file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the path of the project config file relative to
// the current working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.AppHome, constants.ConfigFileName)
}

// LogDir returns the directory log files are written to (~/.prflow/logs).
func LogDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
