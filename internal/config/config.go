// Package config loads the evaluation and recommendation settings of the tie CLI.
//
// Settings are layered, later layers winning:
//  1. Defaults: the values used in the TIE paper's evaluation
//  2. Config file: optional YAML file named by --config or TIE_CONFIG
//  3. Environment: TIE_<KEY> variables, e.g. TIE_ALPHA or TIE_WINDOW_DAYS
//  4. Overrides: command-line flags the user set explicitly
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // timezone names work without a system zoneinfo

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/chriscorrea/tie/internal/tie"
	"github.com/chriscorrea/tie/internal/tokenize"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "TIE_"
	// PathEnvVar names a config file when --config is not given.
	PathEnvVar = EnvPrefix + "CONFIG"
)

// Config holds the tunable settings. Keys match the YAML file and, upper-cased
// with EnvPrefix, the environment.
type Config struct {
	Alpha          float64 `koanf:"alpha"`
	WindowDays     int     `koanf:"window_days"`
	MaxReviews     int     `koanf:"max_reviews"` // 0 evaluates the whole dataset
	Tokenizer      string  `koanf:"tokenizer"`
	CacheSize      int     `koanf:"cache_size"` // 0 keeps every similarity pair
	RecommendCount int     `koanf:"recommend_count"`
	TopK           int     `koanf:"top_k"`
	Timezone       string  `koanf:"timezone"` // IANA zone of uploaded times
}

// Defaults returns the built-in settings. The window is 50 days, as in the
// published evaluation setup, rather than the model's own default of 100.
func Defaults() Config {
	return Config{
		Alpha:          tie.DefaultAlpha,
		WindowDays:     50,
		Tokenizer:      tokenize.Whitespace.String(),
		RecommendCount: 1000,
		TopK:           10,
		Timezone:       "UTC",
	}
}

// Load builds the configuration from defaults, the config file at path (or
// PathEnvVar when path is empty), the environment and overrides, in that order.
// Override keys use the koanf tag names.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps TIE_WINDOW_DAYS to window_days. The config path variable is not a setting.
func envKey(name string) string {
	if name == PathEnvVar {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if !(c.Alpha >= 0 && c.Alpha <= 1) {
		return fmt.Errorf("alpha must be within [0,1], got %v", c.Alpha)
	}
	if c.WindowDays < 0 {
		return fmt.Errorf("window_days must not be negative, got %d", c.WindowDays)
	}
	if c.MaxReviews < 0 {
		return fmt.Errorf("max_reviews must not be negative, got %d", c.MaxReviews)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.RecommendCount <= 0 {
		return fmt.Errorf("recommend_count must be positive, got %d", c.RecommendCount)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if _, err := tokenize.ParseMethod(c.Tokenizer); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NewTokenizer creates the configured tokenizer.
func (c *Config) NewTokenizer() (tokenize.Tokenizer, error) {
	method, err := tokenize.ParseMethod(c.Tokenizer)
	if err != nil {
		return nil, err
	}
	return tokenize.New(method)
}

// Model returns the model parameters using tok for review text.
func (c *Config) Model(tok tie.Tokenizer) (tie.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return tie.Config{}, err
	}
	return tie.Config{
		Alpha:      c.Alpha,
		WindowDays: c.WindowDays,
		Tokenizer:  tok,
		CacheSize:  c.CacheSize,
		Location:   loc,
	}, nil
}
