// Package config loads gridwire settings from a config file and the
// environment.
//
// Keys are grouped the way the poster is built:
//
//	icon:
//	  size: 64
//	  border: 32
//	connection:
//	  gap: 6
//	  gap2icon: 8
//	  gap2border: 16
//	  strategy: lexical
//	  strategies: {trunk: column}
//	round:
//	  radius: 3
//	  min_scale: 0.3
//	  points: 11
//
// Every key can be overridden with a GRIDWIRE_ prefixed variable, dots
// replaced by underscores (GRIDWIRE_CONNECTION_GAP=4).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/gridwire/pkg/core/channel"
	"github.com/matzehuels/gridwire/pkg/core/layout"
	"github.com/matzehuels/gridwire/pkg/core/round"
	"github.com/matzehuels/gridwire/pkg/core/route"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDWIRE"

// =============================================================================
// Config Types
// =============================================================================

// Config holds all settings.
type Config struct {
	Icon       IconConfig       `mapstructure:"icon"`
	Connection ConnectionConfig `mapstructure:"connection"`
	Round      RoundConfig      `mapstructure:"round"`
	Render     RenderConfig     `mapstructure:"render"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Server     ServerConfig     `mapstructure:"server"`
}

// IconConfig sizes the icons.
type IconConfig struct {
	Size   float64 `mapstructure:"size"`
	Border float64 `mapstructure:"border"` // first/last row to poster edge
}

// ConnectionConfig spaces the connection lines and picks slot orderings.
type ConnectionConfig struct {
	Gap        float64           `mapstructure:"gap"`
	Gap2Icon   float64           `mapstructure:"gap2icon"`
	Gap2Border float64           `mapstructure:"gap2border"`
	Strategy   string            `mapstructure:"strategy"`   // default for all kinds
	Strategies map[string]string `mapstructure:"strategies"` // kind name -> strategy name
}

// RoundConfig controls corner smoothing.
type RoundConfig struct {
	Radius   float64 `mapstructure:"radius"`
	MinScale float64 `mapstructure:"min_scale"`
	Points   int     `mapstructure:"points"`
}

// RenderConfig controls the SVG output.
type RenderConfig struct {
	Background string  `mapstructure:"background"`
	LineWidth  float64 `mapstructure:"line_width"`
	Labels     bool    `mapstructure:"labels"`
	FontFamily string  `mapstructure:"font_family"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"` // file, redis or none
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// =============================================================================
// Config Loading
// =============================================================================

func setDefaults(v *viper.Viper) {
	d := layout.DefaultConfig()
	v.SetDefault("icon.size", d.IconSize)
	v.SetDefault("icon.border", d.IconBorder)
	v.SetDefault("connection.gap", d.ChannelGap)
	v.SetDefault("connection.gap2icon", d.ChannelGapToIcon)
	v.SetDefault("connection.gap2border", d.ChannelGapToBorder)
	v.SetDefault("connection.strategy", "lexical")
	v.SetDefault("connection.strategies", map[string]string{})

	v.SetDefault("round.radius", round.DefaultRadius)
	v.SetDefault("round.min_scale", round.DefaultMinScale)
	v.SetDefault("round.points", round.DefaultPoints)

	v.SetDefault("render.background", "#ffffff")
	v.SetDefault("render.line_width", 2.0)
	v.SetDefault("render.labels", true)
	v.SetDefault("render.font_family", "sans-serif")

	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl", "168h")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 4<<20)
}

// defaultCacheDir follows XDG, falling back to ~/.cache/gridwire.
func defaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "gridwire")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "gridwire")
	}
	return filepath.Join(os.TempDir(), "gridwire")
}

// Default returns the built-in settings with environment overrides applied.
func Default() *Config {
	cfg, _ := Load("")
	return cfg
}

// Load reads configPath (if given) on top of the defaults and applies
// environment overrides. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", configPath)
			}
			if _, ok := err.(viper.UnsupportedConfigError); ok {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", configPath)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "unmarshal config")
	}
	return &cfg, nil
}

// =============================================================================
// Conversion
// =============================================================================

// Layout returns the spacing parameters of the routing engine.
func (c *Config) Layout() layout.Config {
	return layout.Config{
		IconSize:           c.Icon.Size,
		IconBorder:         c.Icon.Border,
		ChannelGap:         c.Connection.Gap,
		ChannelGapToIcon:   c.Connection.Gap2Icon,
		ChannelGapToBorder: c.Connection.Gap2Border,
	}
}

// Rounder builds the corner smoother.
func (c *Config) Rounder() (*round.Rounder, error) {
	return round.New(c.Round.Radius, c.Round.MinScale, c.Round.Points)
}

// RouteOptions translates the strategy settings into router options.
func (c *Config) RouteOptions() ([]route.Option, error) {
	var opts []route.Option
	if c.Connection.Strategy != "" {
		s, err := strategy(c.Connection.Strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, route.WithDefaultStrategy(s))
	}

	kinds := make([]string, 0, len(c.Connection.Strategies))
	for k := range c.Connection.Strategies {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, name := range kinds {
		k, ok := channel.ParseKind(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown channel kind %q in connection.strategies", name)
		}
		s, err := strategy(c.Connection.Strategies[name])
		if err != nil {
			return nil, err
		}
		opts = append(opts, route.WithStrategy(k, s))
	}
	return opts, nil
}

func strategy(name string) (channel.Strategy, error) {
	s, ok := channel.Strategies[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown slot strategy %q (want lexical, encounter or column)", name)
	}
	return s, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	if _, err := c.Rounder(); err != nil {
		return err
	}
	if _, err := c.RouteOptions(); err != nil {
		return err
	}
	if err := errors.ValidateColor(c.Render.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.background")
	}
	if !(c.Render.LineWidth > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.line_width must be positive, got %g", c.Render.LineWidth)
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.port out of range: %d", c.Server.Port)
	}
	return nil
}
