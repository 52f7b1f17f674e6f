package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration
type Config struct {
	DatabaseURL   string `koanf:"database_url"`
	JWTSecret     string `koanf:"jwt_secret"`
	Port          string `koanf:"port"`
	Environment   string `koanf:"env"`
	LogLevel      string `koanf:"log_level"`
	RunMigrations bool   `koanf:"run_migrations"`

	// Security configuration
	AllowedOrigins     string `koanf:"allowed_origins"`
	TrustedProxies     string `koanf:"trusted_proxies"`
	EnableRateLimit    bool   `koanf:"enable_rate_limit"`
	RateLimitPerMinute int    `koanf:"rate_limit_per_minute"`
	MaxRequestSize     int64  `koanf:"max_request_size"`

	// Optional infrastructure
	RedisURL     string `koanf:"redis_url"`
	KafkaBrokers string `koanf:"kafka_brokers"`
	KafkaTopic   string `koanf:"kafka_topic"`

	// Scoring
	MaxBatchSize   int           `koanf:"max_batch_size"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	BatchTimeout   time.Duration `koanf:"batch_timeout"`
}

// New returns a configuration populated with defaults only
func New() *Config {
	return &Config{
		Port:               "8080",
		Environment:        "development",
		LogLevel:           "info",
		RunMigrations:      true,
		EnableRateLimit:    true,
		RateLimitPerMinute: 100,
		MaxRequestSize:     1 * 1024 * 1024, // 1MB, bodies are small JSON documents
		KafkaTopic:         "insights.events",
		MaxBatchSize:       100,
		RequestTimeout:     10 * time.Second,
		BatchTimeout:       60 * time.Second,
	}
}

// Load builds a Config by layering defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (DATABASE_URL, JWT_SECRET, ...).
func Load() (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// DATABASE_URL -> database_url; keys are flat so "." never appears.
	// Empty variables are skipped so they cannot blank out defaults.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.MaxBatchSize <= 0 {
		return errors.New("max_batch_size must be positive")
	}
	if c.RequestTimeout <= 0 || c.BatchTimeout <= 0 {
		return errors.New("request_timeout and batch_timeout must be positive")
	}
	if !c.IsDevelopment() {
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required")
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	return splitList(c.AllowedOrigins)
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	return splitList(c.TrustedProxies)
}

// GetKafkaBrokers returns the configured broker addresses
func (c *Config) GetKafkaBrokers() []string {
	return splitList(c.KafkaBrokers)
}

// HasRedis returns true if a shared Redis instance is configured
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
