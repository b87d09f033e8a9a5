package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the intake service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"intake-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"INTAKE_API_PORT" envDefault:"8080"`
	LogLevel        string        `env:"INTAKE_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (required, no default)
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Local Payload Storage
	StoragePath string `env:"STORAGE_PATH" envDefault:"/data/storage"`

	// Retention / Sweeper
	RetentionDays int           `env:"RETENTION_DAYS" envDefault:"7"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"24h"`

	// Per-plan storage quotas in bytes
	PlanFreeBytes  int64 `env:"PLAN_FREE_BYTES" envDefault:"524288000"`
	PlanBasicBytes int64 `env:"PLAN_BASIC_BYTES" envDefault:"5368709120"`
	PlanProBytes   int64 `env:"PLAN_PRO_BYTES" envDefault:"21474836480"`

	// S3 Remote Sink (optional; uploads are disabled when unset)
	S3Endpoint             string `env:"S3_ENDPOINT"`
	S3Region               string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket               string `env:"S3_BUCKET"`
	S3AccessKeyID          string `env:"S3_ACCESS_KEY"`
	S3SecretKey            string `env:"S3_SECRET_KEY"`
	S3UsePathStyle         bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
	RemoveLocalAfterUpload bool   `env:"REMOVE_LOCAL_AFTER_UPLOAD" envDefault:"false"`

	// Authentication (development stub, HS256 signed locally)
	AuthSecret string        `env:"AUTH_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	if strings.TrimSpace(cfg.StoragePath) == "" {
		return nil, fmt.Errorf("STORAGE_PATH must not be empty")
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// RetentionPeriod returns the configured retention threshold as a duration.
// A zero or negative value disables the retention sweep.
func (c *Config) RetentionPeriod() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// PlanQuotas returns the plan name to byte ceiling mapping.
func (c *Config) PlanQuotas() map[string]int64 {
	return map[string]int64{
		"free":  c.PlanFreeBytes,
		"basic": c.PlanBasicBytes,
		"pro":   c.PlanProBytes,
	}
}
