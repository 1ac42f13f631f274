// Package config loads user settings from a TOML file, a .env file and
// the environment, in increasing order of precedence. Command-line flags
// are applied by the hosts on top of the loaded values.
//
//	[layout]
//	horizontal_spacing = 180
//
//	[view]
//	search_debounce_ms = 250
//
//	[source]
//	literal = false
//
//	[server]
//	addr = ":8080"
//	cache = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/layout"
	"github.com/matzehuels/visualizeme/pkg/render"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/view"
)

// Environment variable names.
const (
	EnvAddr     = "VISUALIZEME_ADDR"
	EnvRedisURL = "VISUALIZEME_REDIS_URL"
	EnvMongoURI = "VISUALIZEME_MONGO_URI"
	EnvCache    = "VISUALIZEME_CACHE"
	EnvStore    = "VISUALIZEME_STORE"
	EnvTheme    = "VISUALIZEME_THEME"

	EnvSourceLiteral = "VISUALIZEME_SOURCE_LITERAL"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config is the full set of user settings.
type Config struct {
	Layout layout.Options `toml:"layout"`
	View   ViewConfig     `toml:"view"`
	Render RenderConfig   `toml:"render"`
	Source SourceConfig   `toml:"source"`
	Server ServerConfig   `toml:"server"`
}

// SourceConfig controls input parsing.
type SourceConfig struct {
	// Literal enables source-literal mode for TypeScript modules.
	Literal bool `toml:"literal"`
}

// ViewConfig tunes interaction.
type ViewConfig struct {
	MinZoom          float64 `toml:"min_zoom"`
	MaxZoom          float64 `toml:"max_zoom"`
	SearchDebounceMS int     `toml:"search_debounce_ms"`
}

// RenderConfig sets output defaults.
type RenderConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig configures the HTTP server and its backends.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	Cache         string `toml:"cache"`
	CacheEntries  int    `toml:"cache_entries"`
	Store         string `toml:"store"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// Origins are extra browser origins allowed to open WebSocket
	// connections, e.g. ["https://docs.example.com"].
	Origins []string `toml:"origins"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: layout.DefaultOptions(),
		View: ViewConfig{
			MinZoom:          render.DefaultMinScale,
			MaxZoom:          render.DefaultMaxScale,
			SearchDebounceMS: int(view.DefaultDebounce / time.Millisecond),
		},
		Render: RenderConfig{Theme: render.Light.Name},
		Source: SourceConfig{Literal: true},
		Server: ServerConfig{
			Addr:  ":8080",
			Cache: CacheMemory,
			Store: StoreMemory,
		},
	}
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/visualizeme/config.toml, or ~/.config/visualizeme/config.toml.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "visualizeme", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "visualizeme", "config.toml")
	}
	return filepath.Join(home, ".config", "visualizeme", "config.toml")
}

// Load reads the config file at path (the default location when empty),
// then .env and the environment. A missing file yields the defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) || explicit {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without consulting the
// environment.
func Parse(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
	set(&c.Server.Addr, EnvAddr)
	set(&c.Server.RedisURL, EnvRedisURL)
	set(&c.Server.MongoURI, EnvMongoURI)
	set(&c.Server.Cache, EnvCache)
	set(&c.Server.Store, EnvStore)
	set(&c.Render.Theme, EnvTheme)

	if v := strings.TrimSpace(getenv(EnvSourceLiteral)); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s=%q is not a boolean", EnvSourceLiteral, v)
		}
		c.Source.Literal = on
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	c.Layout = c.Layout.WithDefaults()
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[layout]")
	}
	if c.View.MinZoom <= 0 || c.View.MaxZoom < c.View.MinZoom {
		return errors.New(errors.ErrCodeInvalidConfig, "[view] zoom range %g..%g is invalid", c.View.MinZoom, c.View.MaxZoom)
	}
	if c.View.SearchDebounceMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[view] search_debounce_ms must not be negative")
	}
	if _, err := render.ThemeByName(c.Render.Theme); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[render]")
	}
	switch c.Server.Cache {
	case CacheFile, CacheMemory, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[server] unknown cache %q", c.Server.Cache)
	}
	switch c.Server.Store {
	case StoreMemory, StoreFile, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[server] unknown store %q", c.Server.Store)
	}
	if c.Server.Cache == CacheRedis && c.Server.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] redis cache requires redis_url or %s", EnvRedisURL)
	}
	if c.Server.Store == StoreMongo && c.Server.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] mongo store requires mongo_uri or %s", EnvMongoURI)
	}
	return nil
}

// Engine returns the literal engine for module text. When source-literal
// mode is switched off, every module import fails with ENGINE_UNAVAILABLE
// before any input is read.
func (c Config) Engine() source.Engine {
	if !c.Source.Literal {
		return source.Unavailable("disabled by [source] literal = false")
	}
	return source.Native()
}

// SearchDebounce returns the configured search debounce delay.
func (c Config) SearchDebounce() time.Duration {
	return time.Duration(c.View.SearchDebounceMS) * time.Millisecond
}
