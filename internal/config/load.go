package config

import (
	stderrors "errors"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// newViperInstance creates a Viper instance with the standard prflow setup:
// environment variable prefix (PRFLOW_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PRFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError reports whether err is viper's missing-config error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// Load reads configuration from all available sources with proper precedence.
// Sources are loaded in the following order (highest precedence first):
//  1. Environment variables (PRFLOW_* prefix)
//  2. Project config (.prflow/config.yaml)
//  3. Global config (~/.prflow/config.yaml)
//  4. Built-in defaults
//
// Missing config files are not errors; many repositories run entirely on
// defaults.
func Load() (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(v)
}

// LoadFromPaths loads configuration from explicit file paths. Either path can
// be empty to skip that level. Project config merges over global.
func LoadFromPaths(projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" && fileExists(globalConfigPath) {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, prferrors.Wrapf(err, "reading global config %s", globalConfigPath)
		}
	}
	if projectConfigPath != "" && fileExists(projectConfigPath) {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, prferrors.Wrapf(err, "reading project config %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// LoadWithOverrides loads configuration and applies CLI flag overrides, which
// have the highest precedence. Only non-zero override values are applied, so
// boolean flags need explicit Changed handling in the CLI layer.
func LoadWithOverrides(overrides *Config) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		applyOverrides(cfg, overrides)
	}
	if err := Validate(cfg); err != nil {
		return nil, prferrors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return prferrors.Wrap(err, "reading global config")
	}
	return nil
}

func loadProjectConfig(v *viper.Viper) error {
	path := ProjectConfigPath()
	if !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return prferrors.Wrap(err, "reading project config")
	}
	return nil
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, prferrors.Wrap(err, "unmarshaling config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, prferrors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

func applyOverrides(cfg, overrides *Config) {
	if overrides.Git.BaseBranch != "" {
		cfg.Git.BaseBranch = overrides.Git.BaseBranch
	}
	if overrides.Git.Remote != "" {
		cfg.Git.Remote = overrides.Git.Remote
	}
	if overrides.Git.BranchPrefix != "" {
		cfg.Git.BranchPrefix = overrides.Git.BranchPrefix
	}
	if overrides.Git.Timeout != 0 {
		cfg.Git.Timeout = overrides.Git.Timeout
	}
	if overrides.Worktree.Dir != "" {
		cfg.Worktree.Dir = overrides.Worktree.Dir
	}
	// PR.Draft is a bool, so false is indistinguishable from unset here;
	// the CLI layer applies it via Flags().Changed.
	if overrides.PR.Timeout != 0 {
		cfg.PR.Timeout = overrides.PR.Timeout
	}
	if overrides.Log.Level != "" {
		cfg.Log.Level = overrides.Log.Level
	}
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the YAML tag names exactly.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("git.base_branch", def.Git.BaseBranch)
	v.SetDefault("git.remote", def.Git.Remote)
	v.SetDefault("git.branch_prefix", def.Git.BranchPrefix)
	v.SetDefault("git.timeout", def.Git.Timeout.String())

	v.SetDefault("worktree.dir", def.Worktree.Dir)

	v.SetDefault("pr.draft", def.PR.Draft)
	v.SetDefault("pr.timeout", def.PR.Timeout.String())

	v.SetDefault("log.level", def.Log.Level)
}

// viperDecoderOption configures mapstructure to convert duration strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
