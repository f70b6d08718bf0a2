// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raykavin/trendline"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/logger"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// Constants for configuration
const (
	DefaultConfigPath = "./trendline.yaml"
	EnvPrefix         = "TRENDLINE"
)

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application configuration
type Config struct {
	Server ServerConfig      `mapstructure:"server" yaml:"server"`
	Log    LogConfig         `mapstructure:"log" yaml:"log"`
	Cache  CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Layout core.Layout       `mapstructure:"layout" yaml:"layout"`
	Events string            `mapstructure:"events" yaml:"events"`
	Sheet  string            `mapstructure:"sheet" yaml:"sheet,omitempty"`
	Charts []trendline.Chart `mapstructure:"charts" yaml:"charts"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Port  int  `mapstructure:"port" yaml:"port"`
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// LogConfig holds the console logger settings
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	TimeLayout string `mapstructure:"time_layout" yaml:"time_layout"`
	Colored    bool   `mapstructure:"colored" yaml:"colored"`
	JSON       bool   `mapstructure:"json" yaml:"json"`
}

// CacheConfig holds the rendered document cache settings. An empty path keeps the cache in memory.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
	TTL     string `mapstructure:"ttl" yaml:"ttl"`
}

// Duration parses the cache time to live; day and week units are accepted
func (c CacheConfig) Duration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	ttl, err := str2duration.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("%w: cache ttl %q: %v", ErrInvalidConfig, c.TTL, err)
	}
	return ttl, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Log: LogConfig{
			Level:      "info",
			TimeLayout: time.DateTime,
			Colored:    true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "1h",
		},
		Layout: core.DefaultLayout(),
		Events: "./events.csv",
		Charts: []trendline.Chart{
			{
				Name:    "awareness",
				Source:  "./awareness.csv",
				Rows:    "month",
				Title:   "Google Trends for Various Privacy Tools",
				XLabel:  "Year",
				YLabel:  "Google Trends Results",
				Control: "button",
				Group:   "app",
				Events:  true,
			},
			{
				Name:    "socialmedia",
				Source:  "./sm_monthly_users.csv",
				Rows:    "year",
				Title:   "Monthly Social Media Users",
				XLabel:  "Year",
				YLabel:  "Monthly Users (in Millions)",
				Control: "button",
				Group:   "sm",
				Events:  true,
			},
			{
				Name:    "downloads",
				Source:  "./BRICSdata.csv",
				Rows:    "numeric",
				Title:   "Annual Downloads of Various Privacy Tools",
				XLabel:  "Year",
				YLabel:  "Downloads Per Year",
				Control: "checkbox",
				Labels:  true,
			},
		},
	}
}

// Load reads the configuration file at path, if any, over the defaults.
// TRENDLINE_* environment variables override scalar settings, e.g. TRENDLINE_SERVER_PORT.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.debug", cfg.Server.Debug)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.time_layout", cfg.Log.TimeLayout)
	v.SetDefault("log.colored", cfg.Log.Colored)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.path", cfg.Cache.Path)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("layout.width", cfg.Layout.Width)
	v.SetDefault("layout.height", cfg.Layout.Height)
	v.SetDefault("layout.margin.top", cfg.Layout.Margin.Top)
	v.SetDefault("layout.margin.right", cfg.Layout.Margin.Right)
	v.SetDefault("layout.margin.bottom", cfg.Layout.Margin.Bottom)
	v.SetDefault("layout.margin.left", cfg.Layout.Margin.Left)
	v.SetDefault("events", cfg.Events)
	v.SetDefault("sheet", cfg.Sheet)
	v.SetDefault("charts", cfg.Charts)
}

// Validate checks every setting and every chart declaration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if logger.ParseLevel(c.Log.Level) == logger.NoLevel {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}

	if _, err := c.Cache.Duration(); err != nil {
		return err
	}

	if c.Layout.PlotWidth() <= 0 || c.Layout.PlotHeight() <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, core.ErrInvalidDimensions)
	}

	if len(c.Charts) == 0 {
		return fmt.Errorf("%w: no charts declared", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Charts))
	for _, chart := range c.Charts {
		if err := chart.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if seen[chart.Name] {
			return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, core.ErrDuplicateChart, chart.Name)
		}
		seen[chart.Name] = true
	}

	return nil
}

// Chart returns the declaration of the named chart
func (c *Config) Chart(name string) (trendline.Chart, error) {
	for _, chart := range c.Charts {
		if chart.Name == name {
			return chart, nil
		}
	}
	return trendline.Chart{}, fmt.Errorf("%w: %s", core.ErrUnknownChart, name)
}

// WriteDefault writes the default configuration as YAML, creating the directory if needed.
// An existing file is left untouched unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config %s already exists", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create configuration directory: %w", err)
		}
	}

	content, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	return os.WriteFile(path, content, 0o644)
}
