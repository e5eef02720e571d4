// Package config loads optional file and environment configuration.
// Precedence is resolved by the CLI: flags > environment > file > defaults.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultProvider  = "auto"
	DefaultMaxTokens = 800
)

// File holds the settings a user may pin in hanmd.toml or HANMD_* env vars.
type File struct {
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	MaxTokens    int    `mapstructure:"max_tokens"`
	GlossaryPath string `mapstructure:"glossary"`
	LogFile      string `mapstructure:"log_file"`
	Verbose      bool   `mapstructure:"verbose"`
	AllowEnv     bool   `mapstructure:"allow_env"`
}

// Load reads hanmd.toml from the working directory or
// $HOME/.config/hanmd/, overlaid with HANMD_* environment variables.
// A missing config file is not an error.
func Load(configHome string) (File, error) {
	v := viper.New()
	v.SetConfigName("hanmd")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if configHome != "" {
		v.AddConfigPath(filepath.Join(configHome, "hanmd"))
	}

	v.SetEnvPrefix("HANMD")
	v.AutomaticEnv()

	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("model", "")
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("glossary", "")
	v.SetDefault("log_file", "")
	v.SetDefault("verbose", false)
	v.SetDefault("allow_env", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return File{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return File{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return f, nil
}
