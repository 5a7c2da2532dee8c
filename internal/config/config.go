// Package config loads deckhand settings from XDG paths, a project
// file, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/deckhand-io/deckhand/pkg/models"
)

// Config holds all configuration for deckhand.
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	LLM      LLMConfig      `mapstructure:"llm"`
	History  HistoryConfig  `mapstructure:"history"`
}

// OutputConfig holds file output locations.
type OutputConfig struct {
	// Dir is the directory presentations are written to.
	Dir string `mapstructure:"dir"`
	// ChartsDir is the directory chart images are written to. Empty
	// means a charts/ subdirectory of Dir.
	ChartsDir string `mapstructure:"charts_dir"`
}

// DefaultsConfig holds default generation parameters applied to
// requests that leave them unset.
type DefaultsConfig struct {
	Theme     string `mapstructure:"theme"`
	NumSlides int    `mapstructure:"num_slides"`
}

// LLMConfig holds text-generation settings.
type LLMConfig struct {
	// Enabled gates the generation collaborator; false forces the
	// deterministic offline path.
	Enabled bool `mapstructure:"enabled"`
	// APIKey is the Anthropic API key. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model overrides the client's default model when set.
	Model string `mapstructure:"model"`
	// MaxTokens caps the reply length per call.
	MaxTokens int `mapstructure:"max_tokens"`
	// UseBedrock routes calls through AWS Bedrock instead of the
	// Anthropic API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion selects the Bedrock region; empty defers to the AWS
	// SDK's own resolution.
	AWSRegion string `mapstructure:"aws_region"`
}

// HistoryConfig holds run-history store settings.
type HistoryConfig struct {
	// Enabled gates run recording entirely.
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database location. Empty means
	// .deckhand/history.db in the working directory.
	Path string `mapstructure:"path"`
}

// Load loads configuration with the standard precedence.
// Highest to lowest:
// 1. Environment variables (DECKHAND_*, ANTHROPIC_API_KEY)
// 2. Project config (.deckhand.yaml in the working directory or a parent)
// 3. User config ($XDG_CONFIG_HOME/deckhand/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		pv := viper.New()
		pv.SetConfigFile(projectConfig)
		if err := pv.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(pv.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// DECKHAND_OUTPUT_DIR overrides output.dir and so on.
	v.SetEnvPrefix("DECKHAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("llm.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.LLM.APIKey = os.ExpandEnv(cfg.LLM.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from one specific file, skipping
// the search paths. Used by tests and the --config escape hatch.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.LLM.APIKey = os.ExpandEnv(cfg.LLM.APIKey)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	dir := userConfigDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))

	v.Set("output.dir", cfg.Output.Dir)
	v.Set("output.charts_dir", cfg.Output.ChartsDir)
	v.Set("defaults.theme", cfg.Defaults.Theme)
	v.Set("defaults.num_slides", cfg.Defaults.NumSlides)
	v.Set("llm.enabled", cfg.LLM.Enabled)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("llm.max_tokens", cfg.LLM.MaxTokens)
	v.Set("llm.use_bedrock", cfg.LLM.UseBedrock)
	v.Set("llm.aws_region", cfg.LLM.AWSRegion)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.path", cfg.History.Path)

	return v.WriteConfig()
}

// UserConfigPath returns the path of the user config file.
func UserConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

// ProjectConfigPath returns the path of the project config file, or
// empty when none exists.
func ProjectConfigPath() string {
	return findProjectConfig()
}

// ChartsDir resolves the effective chart output directory.
func (c *Config) ChartsDir() string {
	if c.Output.ChartsDir != "" {
		return c.Output.ChartsDir
	}
	return filepath.Join(c.Output.Dir, "charts")
}

// HistoryPath resolves the effective history database location.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(".deckhand", "history.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.charts_dir", "")

	v.SetDefault("defaults.theme", models.DefaultTheme)
	v.SetDefault("defaults.num_slides", models.DefaultNumSlides)

	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.use_bedrock", false)
	v.SetDefault("llm.aws_region", "")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
}

// userConfigDir returns the XDG config directory for deckhand.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "deckhand")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "deckhand")
	}
	return filepath.Join(home, ".config", "deckhand")
}

// findProjectConfig searches for .deckhand.yaml in the working
// directory and its parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(cwd, ".deckhand.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir: "output",
		},
		Defaults: DefaultsConfig{
			Theme:     models.DefaultTheme,
			NumSlides: models.DefaultNumSlides,
		},
		LLM: LLMConfig{
			Enabled:   true,
			MaxTokens: 4096,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}
