package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=marketplace port=5432 sslmode=disable"

type Database struct {
	Driver string // postgres | sqlite
	DSN    string
}

type Log struct {
	Level  string
	Format string // text | json
}

type Config struct {
	HTTPPort    string
	Database    Database
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins string
	Log         Log

	// Warnings collects non-fatal notes about defaults still in use.
	Warnings []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("load env file %v: %w", envFiles, err)
	}

	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Database: Database{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			DSN:    getEnv("DATABASE_DSN", defaultDSN),
		},
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		Log: Log{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration, got %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.DSN == defaultDSN {
		cfg.Warnings = append(cfg.Warnings, "DATABASE_DSN uses the default value, set your own Postgres DSN for production")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		cfg.Warnings = append(cfg.Warnings, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported (postgres, sqlite)", c.Database.Driver))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not supported (text, json)", c.Log.Format))
	}
	return errors.Join(errs...)
}

// CORSOriginList splits the comma separated CORS_ALLOWED_ORIGINS value.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
