package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"sqlworkshop-server/models"
)

// Config holds all application configuration
type Config struct {
	ServerPort string        `mapstructure:"SERVER_PORT"`
	GinMode    string        `mapstructure:"GIN_MODE"`
	LogMode    string        `mapstructure:"LOG_MODE"`
	CatalogDir string        `mapstructure:"CATALOG_DIR"` // empty: use the bundled catalog
	Session    SessionConfig `mapstructure:"SESSION"`
	Redis      RedisConfig   `mapstructure:"REDIS"`
	CORS       CORSConfig    `mapstructure:"CORS"`
	DemoDB     DemoDBConfig  `mapstructure:"DEMO_DB"`
	Tracing    TracingConfig `mapstructure:"TRACING"`
}

// SessionConfig controls the session cookie and where session state lives.
type SessionConfig struct {
	SigningKey    string        `mapstructure:"SIGNING_KEY"`
	Issuer        string        `mapstructure:"ISSUER"`
	CookieName    string        `mapstructure:"COOKIE_NAME"`
	TTL           time.Duration `mapstructure:"TTL"`
	Store         string        `mapstructure:"STORE"` // memory or redis
	SweepInterval time.Duration `mapstructure:"SWEEP_INTERVAL"`
}

// RedisConfig is only read when SESSION.STORE is redis.
type RedisConfig struct {
	Addr     string `mapstructure:"ADDR"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
	Prefix   string `mapstructure:"PREFIX"`
}

// CORSConfig lists the origins allowed to call the JSON API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
}

// DemoDBConfig seeds the display-only connection parameters.
type DemoDBConfig struct {
	Host string `mapstructure:"HOST"`
	Port string `mapstructure:"PORT"`
	Name string `mapstructure:"NAME"`
	User string `mapstructure:"USER"`
}

// TracingConfig switches OpenTelemetry on. Without an endpoint spans go to stdout.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"ENABLED"`
	Endpoint    string  `mapstructure:"ENDPOINT"`
	Insecure    bool    `mapstructure:"INSECURE"`
	SampleRatio float64 `mapstructure:"SAMPLE_RATIO"`
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// LoadConfig loads configuration from environment variables and config.yaml.
// Without arguments config.yaml is looked up in the working directory.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	// SQLWS_SERVER_PORT, SQLWS_SESSION_SIGNING_KEY, ...
	v.SetEnvPrefix("SQLWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.Session.Store = strings.ToLower(strings.TrimSpace(cfg.Session.Store))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("CATALOG_DIR", "")

	v.SetDefault("SESSION.SIGNING_KEY", "change-me-sqlworkshop-session-key")
	v.SetDefault("SESSION.ISSUER", "sqlworkshop")
	v.SetDefault("SESSION.COOKIE_NAME", "sqlws_session")
	v.SetDefault("SESSION.TTL", "12h")
	v.SetDefault("SESSION.STORE", StoreMemory)
	v.SetDefault("SESSION.SWEEP_INTERVAL", "5m")

	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.PREFIX", "sqlws:")

	v.SetDefault("CORS.ALLOWED_ORIGINS", []string{})

	v.SetDefault("DEMO_DB.HOST", "localhost")
	v.SetDefault("DEMO_DB.PORT", "5432")
	v.SetDefault("DEMO_DB.NAME", "universidad")
	v.SetDefault("DEMO_DB.USER", "postgres")

	v.SetDefault("TRACING.ENABLED", false)
	v.SetDefault("TRACING.ENDPOINT", "")
	v.SetDefault("TRACING.INSECURE", false)
	v.SetDefault("TRACING.SAMPLE_RATIO", 0.1)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Session.SigningKey) == "" {
		return errors.New("SESSION.SIGNING_KEY must not be empty")
	}
	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS.ADDR is required when SESSION.STORE is redis")
		}
	default:
		return fmt.Errorf("unknown SESSION.STORE %q (want %s or %s)", c.Session.Store, StoreMemory, StoreRedis)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION.TTL must be positive, got %s", c.Session.TTL)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("TRACING.SAMPLE_RATIO must be within [0, 1], got %v", c.Tracing.SampleRatio)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION.SWEEP_INTERVAL must be positive, got %s", c.Session.SweepInterval)
	}
	return nil
}

// ConnectionDefaults returns the connection parameters every new session starts with.
// The password is never configured.
func (c *Config) ConnectionDefaults() models.ConnectionParams {
	return models.ConnectionParams{
		Host:     c.DemoDB.Host,
		Port:     c.DemoDB.Port,
		Database: c.DemoDB.Name,
		User:     c.DemoDB.User,
	}
}
