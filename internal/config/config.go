// Package config loads vgsales settings from defaults, an optional YAML file
// and VGSALES_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	DefaultDataDir   = "data"
	DefaultLayout    = "standard"
	DefaultTopN      = 10
	DefaultAddr      = ":8080"
	DefaultLogLevel  = "info"
	DefaultTheme     = "cyberpunk"
	DefaultExportDir = "out"

	// EnvPrefix marks override variables. A double underscore separates
	// nested keys: VGSALES_SOURCES__GENRE_YEAR sets sources.genre_year.
	EnvPrefix = "VGSALES_"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DataDir        string        `koanf:"data_dir" yaml:"data_dir"`
	Sources        SourcesConfig `koanf:"sources" yaml:"sources"`
	Layout         string        `koanf:"layout" yaml:"layout"`
	Width          float64       `koanf:"width" yaml:"width,omitempty"`
	Height         float64       `koanf:"height" yaml:"height,omitempty"`
	TopN           int           `koanf:"top_n" yaml:"top_n"`
	Addr           string        `koanf:"addr" yaml:"addr"`
	AllowedOrigins []string      `koanf:"allowed_origins" yaml:"allowed_origins"`
	LogLevel       string        `koanf:"log_level" yaml:"log_level"`
	Theme          string        `koanf:"theme" yaml:"theme"`
	ExportDir      string        `koanf:"export_dir" yaml:"export_dir"`
}

// SourcesConfig names the CSV resources, as paths under DataDir or URLs.
type SourcesConfig struct {
	Sales       string `koanf:"sales" yaml:"sales"`
	GenreYear   string `koanf:"genre_year" yaml:"genre_year"`
	GenreRegion string `koanf:"genre_region" yaml:"genre_region"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Sources: SourcesConfig{
			Sales:       "vgsales_cleaned.csv",
			GenreYear:   "genre_by_year.csv",
			GenreRegion: "genre_by_region.csv",
		},
		Layout:         DefaultLayout,
		TopN:           DefaultTopN,
		Addr:           DefaultAddr,
		AllowedOrigins: []string{"*"},
		LogLevel:       DefaultLogLevel,
		Theme:          DefaultTheme,
		ExportDir:      DefaultExportDir,
	}
}

// Load layers the YAML file at path (skipped when path is empty or the file
// does not exist) and environment overrides on top of DefaultConfig.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func Save(path string, cfg *Config) error {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Sources.Sales == "":
		return fmt.Errorf("%w: sources.sales is required", ErrInvalidConfig)
	case c.TopN <= 0:
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidConfig, c.TopN)
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !validLogLevels[strings.ToLower(c.LogLevel)]:
		return fmt.Errorf("%w: log_level %q must be one of debug, info, warn, error", ErrInvalidConfig, c.LogLevel)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: width and height must not be negative", ErrInvalidConfig)
	}
	if c.Width == 0 || c.Height == 0 {
		if GetLayout(c.Layout) == nil {
			return fmt.Errorf("%w: unknown layout %q", ErrInvalidConfig, c.Layout)
		}
	}
	return nil
}

// Dimensions returns the explicit width and height when both are set, and
// the layout preset's size otherwise.
func (c *Config) Dimensions() (width, height float64) {
	if c.Width > 0 && c.Height > 0 {
		return c.Width, c.Height
	}
	if l := GetLayout(c.Layout); l != nil {
		return l.Width, l.Height
	}
	l := GetLayout(DefaultLayout)
	return l.Width, l.Height
}
