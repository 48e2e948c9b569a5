// Package config loads recast.yaml, RECAST_* environment variables and
// built-in defaults into a single Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/recast/internal/humanize"
	"github.com/valpere/recast/internal/llm"
	"github.com/valpere/recast/internal/logger"
	"github.com/valpere/recast/internal/pipeline"
)

type Config struct {
	Provider llm.Config     `mapstructure:"provider"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Humanize HumanizeConfig `mapstructure:"humanize"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  logger.Config  `mapstructure:"logging"`
}

// PipelineConfig holds run defaults; command flags override them.
type PipelineConfig struct {
	Platforms  []string      `mapstructure:"platforms"`
	Audience   string        `mapstructure:"audience"`
	ABTesting  bool          `mapstructure:"ab_testing"`
	Variations int           `mapstructure:"variations"`
	Parallel   int           `mapstructure:"parallel"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Critic     bool          `mapstructure:"critic"`
	Refine     bool          `mapstructure:"refine"`
	// Language, when set, flags drafts not written in it (ISO 639-1).
	Language   string        `mapstructure:"language"`
}

// HumanizeConfig extends the built-in rule tables. Disabled skips the
// humanizer in repurpose runs.
type HumanizeConfig struct {
	ExtraWords   []humanize.Replacement    `mapstructure:"extra_words"`
	ExtraPhrases []humanize.Simplification `mapstructure:"extra_phrases"`
	Disabled     bool                      `mapstructure:"disabled"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Defaults returns the configuration used when no file or environment
// override is present.
func Defaults() *Config {
	return &Config{
		Provider: llm.Config{
			Name:              llm.ProviderGroq,
			Timeout:           60 * time.Second,
			RequestsPerSecond: 2,
		},
		Pipeline: PipelineConfig{
			Platforms:  []string{"LinkedIn", "Twitter/X"},
			Variations: pipeline.DefaultVariations,
			Parallel:   4,
			Timeout:    3 * time.Minute,
			Critic:     true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		Logging: logger.Config{
			Level:  "warn",
			Format: "console",
		},
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "recast.db"
	}
	return filepath.Join(home, ".recast", "history.db")
}

// Load reads configuration from configPath, or from recast.yaml in the usual
// search paths when configPath is empty. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	config := Defaults()

	v := viper.New()
	v.SetConfigName("recast")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("$HOME/.recast/")

	v.SetEnvPrefix("RECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnv registers the scalar keys so AutomaticEnv overrides reach
// Unmarshal even when no config file mentions them.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"provider.name", "provider.base_url", "provider.api_key", "provider.model",
		"provider.timeout", "provider.requests_per_second",
		"pipeline.audience", "pipeline.ab_testing", "pipeline.variations",
		"pipeline.parallel", "pipeline.timeout", "pipeline.critic", "pipeline.refine", "pipeline.language",
		"humanize.disabled",
		"history.enabled", "history.path",
		"logging.level", "logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

func validate(config *Config) error {
	if config.Provider.Timeout <= 0 {
		return fmt.Errorf("invalid provider timeout: %s", config.Provider.Timeout)
	}
	if config.Provider.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid requests_per_second: %g", config.Provider.RequestsPerSecond)
	}

	if config.Pipeline.Parallel < 1 {
		return fmt.Errorf("invalid parallel: %d (must be at least 1)", config.Pipeline.Parallel)
	}
	if config.Pipeline.Variations < 2 || config.Pipeline.Variations > 5 {
		return fmt.Errorf("invalid variations: %d (must be between 2 and 5)", config.Pipeline.Variations)
	}

	for _, w := range config.Humanize.ExtraWords {
		if strings.TrimSpace(w.Term) == "" || len(w.Alternatives) == 0 {
			return fmt.Errorf("invalid humanize word %q: term and alternatives are required", w.Term)
		}
	}
	for _, p := range config.Humanize.ExtraPhrases {
		if strings.TrimSpace(p.Phrase) == "" {
			return fmt.Errorf("invalid humanize phrase: phrase is required")
		}
	}

	if config.History.Enabled && config.History.Path == "" {
		return fmt.Errorf("history is enabled but history.path is empty")
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	return nil
}

// Tables returns the built-in humanizer tables extended with the configured
// extra words and phrases.
func (c *Config) Tables() humanize.Tables {
	return humanize.DefaultTables().Merge(humanize.Tables{
		Words:   c.Humanize.ExtraWords,
		Phrases: c.Humanize.ExtraPhrases,
	})
}

// Humanizer compiles Tables. An invalid extra rule surfaces here, at start-up.
func (c *Config) Humanizer() (*humanize.Humanizer, error) {
	if len(c.Humanize.ExtraWords) == 0 && len(c.Humanize.ExtraPhrases) == 0 {
		return humanize.Default(), nil
	}
	return humanize.New(c.Tables())
}

// PipelineOptions converts the pipeline section for pipeline.New.
func (c *Config) PipelineOptions() pipeline.Config {
	return pipeline.Config{
		Parallel:   c.Pipeline.Parallel,
		Timeout:    c.Pipeline.Timeout,
		Variations: c.Pipeline.Variations,
		NoHumanize: c.Humanize.Disabled,
	}
}
