package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	defaultAdminSessionTTL   = 24 * time.Hour
	defaultLoginRateLimit    = 10
	defaultHistoryKeep       = 50
	defaultBlobBackend       = "disk"
	defaultRedisPort         = "6379"
	defaultPrometheusMetrics = "9091"
	defaultSentryLevel       = "error"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// lowest level forwarded to sentry
	SentryLevel string `toml:"sentry_level"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres, only needed with the postgres blob backend
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// profiles storage
	BlobBackend        string `toml:"blob_backend"`
	BlobRootPath       string `toml:"blob_root_path"`
	BlobCacheSizeBytes int    `toml:"blob_cache_size_bytes"`
	HistoryKeep        int    `toml:"history_keep"`

	// empty means the built-in program / quotes
	ProgramPath   string `toml:"program_path"`
	QuotesCsvPath string `toml:"quotes_csv_path"`

	PublicBaseURL   string   `toml:"public_base_url"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	AdminSessionTTL Duration `toml:"admin_session_ttl"`

	ApiRateLimitAllowedPerMin   int `toml:"api_rate_limit_allowed_per_min"`
	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

// Duration lets the toml file carry values like "24h"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("env %s missing in config", env)
	}
	return cfg, nil
}

// Load reads the toml file at path and returns the table for env, with defaults applied
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.BlobBackend == "" {
		c.BlobBackend = defaultBlobBackend
	}
	if c.RedisPort == "" {
		c.RedisPort = defaultRedisPort
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = defaultPrometheusMetrics
	}
	if c.AdminSessionTTL.Duration == 0 {
		c.AdminSessionTTL.Duration = defaultAdminSessionTTL
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = defaultLoginRateLimit
	}
	if c.HistoryKeep == 0 {
		c.HistoryKeep = defaultHistoryKeep
	}
	if c.SentryLevel == "" {
		c.SentryLevel = defaultSentryLevel
	}
}

// Validate reports every problem at once
func (c *Config) Validate() error {
	var err error
	if c.Port <= 0 || c.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.BlobBackend {
	case "disk":
		if c.BlobRootPath == "" {
			err = multierr.Append(err, errors.New("blob_root_path required for disk backend"))
		}
	case "postgres":
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			err = multierr.Append(err, errors.New("postgres_host and postgres_db_name required for postgres backend"))
		}
	case "redis":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown blob_backend: %s", c.BlobBackend))
	}
	if c.RedisHost == "" {
		err = multierr.Append(err, errors.New("redis_host required"))
	}
	if c.HistoryKeep < 1 {
		err = multierr.Append(err, fmt.Errorf("history_keep must be positive, got %d", c.HistoryKeep))
	}
	if c.BlobCacheSizeBytes < 0 {
		err = multierr.Append(err, errors.New("blob_cache_size_bytes must not be negative"))
	}
	if c.ApiRateLimitAllowedPerMin < 0 || c.LoginRateLimitAllowedPerMin < 0 {
		err = multierr.Append(err, errors.New("rate limits must not be negative"))
	}
	return err
}
