// Package config loads the circuitgraph application config file.
//
// The file is TOML, read from --config or from
// $XDG_CONFIG_HOME/circuitgraph/config.toml (falling back to
// ~/.config/circuitgraph/config.toml). A missing default file is not an
// error; every field has a default.
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//	rate_limit = 10.0
//	burst = 20
//	trust_proxy = false
//
//	[render]
//	format = "svg"
//	detailed = true
//
// CIRCUITGRAPH_REDIS_ADDR overrides cache.redis_addr and selects the redis
// backend.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/circuitgraph/pkg/cache"
	"github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "circuitgraph"

// EnvRedisAddr overrides the redis address.
const EnvRedisAddr = "CIRCUITGRAPH_REDIS_ADDR"

// Config is the application configuration.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// RateLimit is the sustained requests per second per client; 0 disables
	// limiting.
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that sets those headers.
	TrustProxy bool `toml:"trust_proxy"`
}

// RenderConfig holds render defaults for the CLI.
type RenderConfig struct {
	Format   string `toml:"format"`
	Detailed bool   `toml:"detailed"`
}

// Duration is a time.Duration read from a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Dir:     defaultCacheDir(),
			TTL:     Duration{cache.TTLReduce},
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 10,
			Burst:     20,
		},
		Render: RenderConfig{
			Format: pipeline.DefaultFormat,
		},
	}
}

// Load reads the config at path on top of [Default]. An empty path reads
// the default location and tolerates its absence.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		default:
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
		}
	}
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		cfg.Cache.Backend = cache.BackendRedis
		cfg.Cache.RedisAddr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.rate_limit and server.burst must not be negative")
	}
	if err := pipeline.ValidateFormat(c.Render.Format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "render.format")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
	}
}

// DefaultPath returns the default config file location, or "" if no home
// directory can be determined.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// defaultCacheDir follows XDG (~/.cache/circuitgraph/).
func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}
