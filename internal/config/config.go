// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig         `mapstructure:"server"`
	Crawler CrawlerConfig        `mapstructure:"crawler"`
	Logging LoggingConfig        `mapstructure:"logging"`
	Jobs    map[string]JobPreset `mapstructure:"jobs"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs fetch and output behavior.
type CrawlerConfig struct {
	UserAgent      string  `mapstructure:"user_agent"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	DelaySeconds   float64 `mapstructure:"delay_seconds"`
	OutputDir      string  `mapstructure:"output_dir"`
}

// LoggingConfig toggles zap development features and the optional log file.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// JobPreset is a named, reusable crawl definition. Fields left empty fall
// back to CLI flags or defaults.
type JobPreset struct {
	Type           string `mapstructure:"type"`
	Value          string `mapstructure:"value"`
	PreRemoveType  string `mapstructure:"pre_remove_type"`
	PreRemoveValue string `mapstructure:"pre_remove_value"`
	Filename       string `mapstructure:"filename"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MDTUTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawler.timeout_seconds", 30)
	v.SetDefault("crawler.delay_seconds", 1.0)
	v.SetDefault("crawler.output_dir", "downloads")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Crawler.DelaySeconds < 0 {
		return fmt.Errorf("crawler.delay_seconds must be >= 0")
	}
	if strings.TrimSpace(c.Crawler.OutputDir) == "" {
		return fmt.Errorf("crawler.output_dir must be set")
	}
	for name, preset := range c.Jobs {
		if preset.Type != "" && preset.Type != "class" && preset.Type != "id" && preset.Type != "tag" {
			return fmt.Errorf("jobs.%s.type must be class, id, or tag", name)
		}
	}
	return nil
}

// FetchTimeout converts the timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}

// FetchDelay converts the inter-request delay config into a duration.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.Crawler.DelaySeconds * float64(time.Second))
}
