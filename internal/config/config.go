// Package config loads the bus-times configuration.
//
// Settings come from built-in defaults, then an optional YAML file, then the
// environment (PORT, TFL_TOKEN). Command-line flags are applied by the
// binaries on top and the result is checked with Validate.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/bus-times/internal/feed"
	"github.com/jusunglee/bus-times/internal/filter"
	"github.com/jusunglee/bus-times/internal/models"
	"github.com/jusunglee/bus-times/internal/store"
)

const (
	DefaultPort     = 3000
	DefaultAPIKey   = "missing-tfl-token"
	DefaultTimeZone = "Europe/London"
)

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// TfLConfig contains the arrivals API configuration
type TfLConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// DisplayConfig contains rendering configuration
type DisplayConfig struct {
	TimeZone string `yaml:"timezone" validate:"required,timezone"`
	Limit    int    `yaml:"limit" validate:"gte=1,lte=5"`
}

// StopConfig describes one stop of the registry
type StopConfig struct {
	ID          string   `yaml:"id" validate:"required"`
	Name        string   `yaml:"name" validate:"required"`
	Flag        uint64   `yaml:"flag" validate:"omitempty,pow2"`
	Lines       []string `yaml:"lines" validate:"dive,required"`
	Destination string   `yaml:"destination"`
}

// SiteConfig names a group of stops
type SiteConfig struct {
	Name  string   `yaml:"name" validate:"required"`
	Stops []string `yaml:"stops" validate:"required,min=1,dive,required"`
}

// Config is the root configuration structure
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	TfL     TfLConfig     `yaml:"tfl"`
	Display DisplayConfig `yaml:"display"`
	Stops   []StopConfig  `yaml:"stops" validate:"dive"`
	Sites   []SiteConfig  `yaml:"sites" validate:"dive"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: DefaultPort},
		TfL: TfLConfig{
			BaseURL: feed.DefaultBaseURL,
			APIKey:  DefaultAPIKey,
			Timeout: feed.DefaultTimeout,
		},
		Display: DisplayConfig{
			TimeZone: DefaultTimeZone,
			Limit:    filter.MaxArrivals,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment looked up through getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if token := getenv("TFL_TOKEN"); token != "" {
		cfg.TfL.APIKey = token
	}
	if cfg.TfL.APIKey == "" {
		cfg.TfL.APIKey = DefaultAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("pow2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Uint()
		return f != 0 && f&(f-1) == 0
	})
	return v
}

// Validate checks the configuration's struct tags and that the stop table
// builds into a registry
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Registry builds the stop registry. Without configured stops the built-in
// table is used.
func (c *Config) Registry() (*store.Registry, error) {
	if len(c.Stops) == 0 {
		if len(c.Sites) > 0 {
			return nil, fmt.Errorf("sites configured without stops")
		}
		return store.Default(), nil
	}

	stops := make([]models.Stop, len(c.Stops))
	for i, s := range c.Stops {
		stops[i] = models.Stop{
			ID:          s.ID,
			Name:        s.Name,
			Flag:        s.Flag,
			Lines:       s.Lines,
			Destination: s.Destination,
		}
	}
	sites := make([]models.Site, len(c.Sites))
	for i, s := range c.Sites {
		sites[i] = models.Site{Name: s.Name, Stops: s.Stops}
	}
	return store.NewRegistry(stops, sites)
}

// Location loads the display time zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Display.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %s: %w", c.Display.TimeZone, err)
	}
	return loc, nil
}

// FeedConfig returns the arrivals client settings
func (c *Config) FeedConfig() feed.Config {
	return feed.Config{
		BaseURL: c.TfL.BaseURL,
		APIKey:  c.TfL.APIKey,
		Timeout: c.TfL.Timeout,
	}
}
