package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerPort != ":8080" || cfg.GinMode != "debug" {
		t.Fatalf("server = %q/%q", cfg.ServerPort, cfg.GinMode)
	}
	if cfg.Session.TTL != 12*time.Hour || cfg.Session.SweepInterval != 5*time.Minute {
		t.Fatalf("session = %+v", cfg.Session)
	}
	if cfg.Session.Store != StoreMemory {
		t.Fatalf("store = %q", cfg.Session.Store)
	}
	if cfg.Tracing.Enabled || cfg.Tracing.SampleRatio != 0.1 {
		t.Fatalf("tracing = %+v", cfg.Tracing)
	}

	p := cfg.ConnectionDefaults()
	if p.Host != "localhost" || p.Port != "5432" || p.Database != "universidad" || p.User != "postgres" || p.Password != "" {
		t.Fatalf("connection defaults = %+v", p)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "SERVER_PORT: \":9090\"\nSESSION:\n  TTL: 30m\nDEMO_DB:\n  NAME: tienda\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SQLWS_SESSION_ISSUER", "from-env")
	t.Setenv("SQLWS_SESSION_STORE", "REDIS")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerPort != ":9090" || cfg.Session.TTL != 30*time.Minute || cfg.DemoDB.Name != "tienda" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Session.Issuer != "from-env" || cfg.Session.Store != StoreRedis {
		t.Fatalf("env values not applied: %+v", cfg.Session)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Session: SessionConfig{SigningKey: "k", Store: StoreMemory, TTL: time.Hour, SweepInterval: time.Minute},
			Redis:   RedisConfig{Addr: "localhost:6379"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"empty key", func(c *Config) { c.Session.SigningKey = "  " }, "SIGNING_KEY"},
		{"unknown store", func(c *Config) { c.Session.Store = "etcd" }, "unknown SESSION.STORE"},
		{"redis without addr", func(c *Config) { c.Session.Store = StoreRedis; c.Redis.Addr = "" }, "REDIS.ADDR"},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }, "TTL"},
		{"sample ratio", func(c *Config) { c.Tracing.SampleRatio = 2 }, "SAMPLE_RATIO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
