package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckhand-io/deckhand/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify deckhand configuration.

Without arguments, displays the effective configuration and where it
came from. With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/deckhand/config.yaml
Project-specific overrides can be placed in .deckhand.yaml
Environment variables (DECKHAND_*, ANTHROPIC_API_KEY) win over both.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values and their sources.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("output.dir: %s\n", cfg.Output.Dir)
	fmt.Printf("output.charts_dir: %s\n", cfg.ChartsDir())
	fmt.Printf("defaults.theme: %s\n", cfg.Defaults.Theme)
	fmt.Printf("defaults.num_slides: %d\n", cfg.Defaults.NumSlides)
	fmt.Printf("llm.enabled: %t\n", cfg.LLM.Enabled)
	fmt.Printf("llm.api_key: %s\n", config.MaskAPIKey(cfg.LLM.APIKey))
	fmt.Printf("llm.model: %s\n", cfg.LLM.Model)
	fmt.Printf("llm.max_tokens: %d\n", cfg.LLM.MaxTokens)
	fmt.Printf("llm.use_bedrock: %t\n", cfg.LLM.UseBedrock)
	fmt.Printf("llm.aws_region: %s\n", cfg.LLM.AWSRegion)
	fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
	fmt.Printf("history.path: %s\n", cfg.HistoryPath())

	fmt.Println()
	if key, source, err := config.ResolveAPIKey(cfg); err == nil {
		fmt.Printf("API key: %s (from %s)\n", config.MaskAPIKey(key), source)
	} else {
		fmt.Println("API key: (not set)")
	}
	fmt.Printf("User config: %s\n", config.UserConfigPath())
	if p := config.ProjectConfigPath(); p != "" {
		fmt.Printf("Project config: %s\n", p)
	}
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "output.dir":
		return cfg.Output.Dir, nil
	case "output.charts_dir":
		return cfg.ChartsDir(), nil
	case "defaults.theme":
		return cfg.Defaults.Theme, nil
	case "defaults.num_slides":
		return strconv.Itoa(cfg.Defaults.NumSlides), nil
	case "llm.enabled":
		return strconv.FormatBool(cfg.LLM.Enabled), nil
	case "llm.api_key":
		return config.MaskAPIKey(cfg.LLM.APIKey), nil
	case "llm.model":
		return cfg.LLM.Model, nil
	case "llm.max_tokens":
		return strconv.Itoa(cfg.LLM.MaxTokens), nil
	case "llm.use_bedrock":
		return strconv.FormatBool(cfg.LLM.UseBedrock), nil
	case "llm.aws_region":
		return cfg.LLM.AWSRegion, nil
	case "history.enabled":
		return strconv.FormatBool(cfg.History.Enabled), nil
	case "history.path":
		return cfg.HistoryPath(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "output.dir":
		cfg.Output.Dir = value
	case "output.charts_dir":
		cfg.Output.ChartsDir = value
	case "defaults.theme":
		cfg.Defaults.Theme = value
	case "defaults.num_slides":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for num_slides: %w", err)
		}
		cfg.Defaults.NumSlides = n
	case "llm.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for llm.enabled: %w", err)
		}
		cfg.LLM.Enabled = b
	case "llm.api_key":
		cfg.LLM.APIKey = value
	case "llm.model":
		cfg.LLM.Model = value
	case "llm.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		cfg.LLM.MaxTokens = n
	case "llm.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for llm.use_bedrock: %w", err)
		}
		cfg.LLM.UseBedrock = b
	case "llm.aws_region":
		cfg.LLM.AWSRegion = value
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for history.enabled: %w", err)
		}
		cfg.History.Enabled = b
	case "history.path":
		cfg.History.Path = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
