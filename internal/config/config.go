// Package config loads the supervisor, worker roster, model backend and
// moderation settings from a YAML file and SUPERVISOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/moderation"
)

const DefaultConfigName = "supervisor"

type Config struct {
	LogFile    string           `mapstructure:"log_file"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
	Workers    []WorkerConfig   `mapstructure:"workers"`
	Moderation ModerationConfig `mapstructure:"moderation"`
}

type LLMConfig struct {
	Backend    string `mapstructure:"backend"`
	Model      string `mapstructure:"model"`
	OllamaHost string `mapstructure:"ollama_host"`
	APIKey     string `mapstructure:"api_key"`
}

type SupervisorConfig struct {
	Name   string `mapstructure:"name"`
	Prompt string `mapstructure:"prompt"`
	// RecursionLimit stays textual; the supervisor parses it and falls back
	// to its default on bad input.
	RecursionLimit string `mapstructure:"recursion_limit"`
}

type WorkerConfig struct {
	Name string `mapstructure:"name"`
	// Prompt is the worker's system prompt.
	Prompt string `mapstructure:"prompt"`
	Model  string `mapstructure:"model"`
}

type ModerationConfig struct {
	Patterns        []string `mapstructure:"patterns"`
	CaseInsensitive bool     `mapstructure:"case_insensitive"`
}

// Load reads path, or ./supervisor.yaml when path is empty. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SUPERVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_file", "")

	v.SetDefault("llm.backend", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.ollama_host", "")
	v.SetDefault("llm.api_key", "")

	v.SetDefault("supervisor.name", "supervisor")
	v.SetDefault("supervisor.prompt", "")
	v.SetDefault("supervisor.recursion_limit", "100")

	v.SetDefault("moderation.case_insensitive", true)
}

func (c *Config) ClientConfig() llm_client.Config {
	return llm_client.Config{
		Backend:    c.LLM.Backend,
		Model:      c.LLM.Model,
		OllamaHost: c.LLM.OllamaHost,
		APIKey:     c.LLM.APIKey,
	}
}

// Gates builds the configured moderation gates, in order.
func (c *Config) Gates() ([]moderation.Gate, error) {
	if len(c.Moderation.Patterns) == 0 {
		return nil, nil
	}
	g, err := moderation.NewPatternGate("pattern-filter", c.Moderation.Patterns, c.Moderation.CaseInsensitive)
	if err != nil {
		return nil, fmt.Errorf("moderation config: %w", err)
	}
	return []moderation.Gate{g}, nil
}
