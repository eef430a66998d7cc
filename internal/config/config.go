package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
)

// Fail-on levels.
const (
	FailOnError        = "error"
	FailOnNonCompliant = "noncompliant"
)

// ConfigFiles are searched, in order, in the working directory.
var ConfigFiles = []string{".cqerc.json", ".cqerc.yaml", ".cqerc.yml"}

// Config represents the cqe configuration
type Config struct {
	Root           string   `mapstructure:"root" json:"root,omitempty"`
	Params         string   `mapstructure:"params" json:"params,omitempty"`
	Samples        []string `mapstructure:"samples" json:"samples,omitempty"`
	FollowSymlinks bool     `mapstructure:"followSymlinks" json:"followSymlinks"`
	Format         string   `mapstructure:"format" json:"format"`
	Output         string   `mapstructure:"output" json:"output,omitempty"`
	FailOn         string   `mapstructure:"failOn" json:"failOn"`
	Quiet          bool     `mapstructure:"quiet" json:"quiet"`
	Verbose        bool     `mapstructure:"verbose" json:"verbose"`
	Concurrency    int      `mapstructure:"concurrency" json:"concurrency"`
}

// LoadConfig loads configuration from defaults, the first config file
// found, CQE_* environment variables and bound flags, in increasing
// precedence.
func LoadConfig(rootPath string) (*Config, error) {
	viper.SetDefault("root", "")
	viper.SetDefault("params", "")
	viper.SetDefault("samples", []string{})
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("failOn", FailOnError)
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", 0)

	for _, path := range ConfigFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		break
	}

	viper.SetEnvPrefix("CQE")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if !slices.Contains([]string{"console", "json", "markdown"}, config.Format) {
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'markdown'", config.Format)
	}

	if config.FailOn != FailOnError && config.FailOn != FailOnNonCompliant {
		return fmt.Errorf("invalid fail-on level: %s. Must be '%s' or '%s'", config.FailOn, FailOnError, FailOnNonCompliant)
	}

	if config.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	if config.Quiet && config.Verbose {
		return fmt.Errorf("quiet and verbose are mutually exclusive")
	}

	if config.Params != "" {
		if info, err := os.Stat(config.Params); err != nil || info.IsDir() {
			return fmt.Errorf("params file not found: %s", config.Params)
		}
	}

	return nil
}

// SaveConfig saves the configuration as JSON, creating parent directories.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
