package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/circuitgraph/pkg/cache"
	"github.com/matzehuels/circuitgraph/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration != cache.TTLReduce {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, cache.TTLReduce)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvRedisAddr, "")
	path := writeConfig(t, `
[cache]
backend = "none"
ttl = "1h30m"

[server]
addr = "127.0.0.1:9000"
rate_limit = 2.5
burst = 5
trust_proxy = true

[render]
format = "png"
detailed = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendNone {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache.TTL = %v, want 1h30m", cfg.Cache.TTL)
	}
	if cfg.Cache.Dir == "" {
		t.Error("Cache.Dir should keep its default")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.RateLimit != 2.5 || cfg.Server.Burst != 5 || !cfg.Server.TrustProxy {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Render.Format != "png" || !cfg.Render.Detailed {
		t.Errorf("Render = %+v", cfg.Render)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv(EnvRedisAddr, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") with no default file error: %v", err)
	}

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	t.Setenv(EnvRedisAddr, "")
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, AppName), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[server]\naddr = \":7000\"\n"
	if err := os.WriteFile(filepath.Join(dir, AppName, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvRedisAddr, "")
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[cache\n", errors.ErrCodeInvalidFormat},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidFormat},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidInput},
		{"bad format", "[render]\nformat = \"gif\"\n", errors.ErrCodeInvalidInput},
		{"negative burst", "[server]\nburst = -1\n", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRedisEnvOverride(t *testing.T) {
	t.Setenv(EnvRedisAddr, "redis.internal:6379")

	cfg, err := Load(writeConfig(t, "[cache]\nbackend = \"none\"\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	opts := cfg.CacheOptions()
	if opts.Backend != cache.BackendRedis || opts.RedisAddr != "redis.internal:6379" {
		t.Errorf("CacheOptions() = %+v, want redis at redis.internal:6379", opts)
	}
}
