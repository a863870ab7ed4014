// Package config loads expwiz settings with viper.
//
// Precedence, highest first: flags bound by the caller, environment,
// project expwiz.yml, global $XDG_CONFIG_HOME/expwiz/expwiz.yml, defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Wizard modes.
const (
	ModeSimple   = "simple"
	ModeEnhanced = "enhanced"
)

// Config holds all expwiz settings.
type Config struct {
	Mode     string        `mapstructure:"mode" yaml:"mode"`
	Theme    string        `mapstructure:"theme" yaml:"theme"`
	LogLevel string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string        `mapstructure:"log_file" yaml:"log_file"`
	Suggest  SuggestConfig `mapstructure:"suggest" yaml:"suggest"`
	Review   ReviewConfig  `mapstructure:"review" yaml:"review"`
}

// SuggestConfig configures the suggestion provider.
type SuggestConfig struct {
	Provider      string        `mapstructure:"provider" yaml:"provider"`
	Model         string        `mapstructure:"model" yaml:"model,omitempty"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	GeminiAPIKey  string        `mapstructure:"gemini_api_key" yaml:"-"`
	GeminiBaseURL string        `mapstructure:"gemini_base_url" yaml:"gemini_base_url,omitempty"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key" yaml:"-"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url" yaml:"openai_base_url,omitempty"`
}

// ReviewConfig configures the simulated design review.
type ReviewConfig struct {
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
}

// Simple reports whether the wizard runs without experiment types and AI review.
func (c *Config) Simple() bool { return c.Mode == ModeSimple }

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSimple, ModeEnhanced:
	default:
		return fmt.Errorf("invalid mode %q: want %s or %s", c.Mode, ModeSimple, ModeEnhanced)
	}
	switch c.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q: want dark or light", c.Theme)
	}
	if c.Suggest.Timeout < 0 {
		return fmt.Errorf("invalid suggest.timeout %s", c.Suggest.Timeout)
	}
	if c.Review.Delay < 0 {
		return fmt.Errorf("invalid review.delay %s", c.Review.Delay)
	}
	return nil
}

// New returns a viper instance with defaults, environment bindings and any
// config files applied. Callers may bind flags on it before calling Decode.
// An explicit path replaces the global and project files.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("mode", ModeEnhanced)
	v.SetDefault("theme", "dark")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("suggest.provider", "auto")
	v.SetDefault("suggest.model", "")
	v.SetDefault("suggest.timeout", 20*time.Second)
	v.SetDefault("suggest.gemini_api_key", "")
	v.SetDefault("suggest.gemini_base_url", "")
	v.SetDefault("suggest.openai_api_key", "")
	v.SetDefault("suggest.openai_base_url", "")
	v.SetDefault("review.delay", 1500*time.Millisecond)

	v.SetEnvPrefix("EXPWIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"suggest.gemini_api_key": {"EXPWIZ_SUGGEST_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"suggest.openai_api_key": {"EXPWIZ_SUGGEST_OPENAI_API_KEY", "OPENAI_API_KEY"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		return v, nil
	}

	if globalPath := GlobalPath(); fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}
	if projectPath := ProjectPath(); fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals and validates v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration without flag overrides.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// GlobalPath returns ~/.config/expwiz/expwiz.yml or its XDG_CONFIG_HOME equivalent.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "expwiz", "expwiz.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "expwiz", "expwiz.yml")
}

// ProjectPath returns the config path in the working directory.
func ProjectPath() string {
	return "expwiz.yml"
}

// Marshal renders cfg as yaml. API keys are never written.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteGlobal writes cfg to GlobalPath, creating its directory.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes cfg to ProjectPath.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
