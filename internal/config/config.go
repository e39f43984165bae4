// Package config loads zonesmith settings from a TOML file and the
// environment.
//
// Settings are read, in increasing priority, from built-in defaults,
// config.toml in the config directory (or the file given with --config),
// and ZONESMITH_* environment variables. Nested keys map to variables with
// "." replaced by "_": store.backend is ZONESMITH_STORE_BACKEND.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	zerrors "github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/pipeline"
	"github.com/matzehuels/zonesmith/pkg/store"
)

const (
	appName   = "zonesmith"
	envPrefix = "ZONESMITH"
	fileName  = "config"
	fileType  = "toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full set of settings.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// StoreConfig selects the layout store.
type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	Dir           string `mapstructure:"dir"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisDB       int    `mapstructure:"redis_db"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"`
	Dir       string        `mapstructure:"dir"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

// RenderConfig holds default render options.
type RenderConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Style  string `mapstructure:"style"`
}

// Dir returns the config directory, $XDG_CONFIG_HOME/zonesmith on Linux.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// CacheDir returns the default render cache directory.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// Load reads the settings. An empty path searches the config directory and
// the working directory; a missing file there is not an error. An explicit
// path that cannot be read is.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case path != "" && os.IsNotExist(err):
			return nil, zerrors.Wrap(zerrors.ErrCodeInvalidPath, err, "config file %s", path)
		default:
			return nil, zerrors.Wrap(zerrors.ErrCodeInvalidFormat, err, "read config file %s (must be valid TOML)", v.ConfigFileUsed())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, zerrors.Wrap(zerrors.ErrCodeInvalidFormat, err, "parse config file %s", v.ConfigFileUsed())
	}
	cfg.File = v.ConfigFileUsed()

	normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the settings used without a config file or environment.
func Default() *Config {
	cfg := &Config{}
	_ = newViper().Unmarshal(cfg)
	normalize(cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// setDefaults registers every key, which also makes AutomaticEnv see it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.dir", "")
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_database", appName)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", pipeline.DefaultArtifactTTL)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.session_ttl", 2*time.Hour)

	v.SetDefault("render.width", pipeline.DefaultWidth)
	v.SetDefault("render.height", pipeline.DefaultHeight)
	v.SetDefault("render.style", pipeline.DefaultStyle)
}

func normalize(cfg *Config) {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	cfg.Render.Style = strings.ToLower(strings.TrimSpace(cfg.Render.Style))
	if cfg.Store.SQLitePath == "" {
		if dir, err := Dir(); err == nil {
			cfg.Store.SQLitePath = filepath.Join(dir, "layouts.db")
		}
	}
	if cfg.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
}

// Validate checks every setting and reports the first bad one as
// INVALID_INPUT.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "log.level: %v", err)
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "store.backend: %q is not one of %v", c.Store.Backend, store.Backends)
	}
	if c.Store.RedisDB < 0 {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "store.redis_db: must not be negative")
	}
	if c.Cache.Backend != CacheFile && c.Cache.Backend != CacheRedis {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "cache.backend: %q is not one of [file redis]", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "cache.ttl: must not be negative")
	}
	if c.Server.Addr == "" {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "server.addr: must not be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "server timeouts must be positive")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return zerrors.Wrap(zerrors.ErrCodeInvalidInput, err, "render.style")
	}
	return nil
}

// LogLevel returns the parsed log level, info when unparsable.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// StoreOptions converts the store settings for [store.Open].
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Dir:           c.Store.Dir,
		SQLitePath:    c.Store.SQLitePath,
		RedisAddr:     c.Store.RedisAddr,
		RedisDB:       c.Store.RedisDB,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}

// RenderOptions returns pipeline options seeded with the render defaults.
func (c *Config) RenderOptions(formats ...string) pipeline.Options {
	return pipeline.Options{
		Formats: formats,
		Style:   c.Render.Style,
		Width:   c.Render.Width,
		Height:  c.Render.Height,
	}
}

// String renders the settings as TOML-like key = value lines.
func (c *Config) String() string {
	var b strings.Builder
	line := func(k string, v any) { fmt.Fprintf(&b, "%s = %v\n", k, v) }
	line("log.level", c.Log.Level)
	line("store.backend", c.Store.Backend)
	line("store.dir", c.Store.Dir)
	line("store.sqlite_path", c.Store.SQLitePath)
	line("store.redis_addr", c.Store.RedisAddr)
	line("store.redis_db", c.Store.RedisDB)
	line("store.mongo_database", c.Store.MongoDatabase)
	line("cache.enabled", c.Cache.Enabled)
	line("cache.backend", c.Cache.Backend)
	line("cache.dir", c.Cache.Dir)
	line("cache.ttl", c.Cache.TTL)
	line("server.addr", c.Server.Addr)
	line("server.read_timeout", c.Server.ReadTimeout)
	line("render.width", c.Render.Width)
	line("render.height", c.Render.Height)
	line("render.style", c.Render.Style)
	return b.String()
}
