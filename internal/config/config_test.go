package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"marketplace-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"HTTP_PORT", "DB_DRIVER", "DATABASE_DSN", "JWT_SECRET",
		"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "TOKEN_TTL",
	} {
		t.Setenv(k, kv[k])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"JWT_SECRET": secret})

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"HTTP_PORT":            "9000",
		"DB_DRIVER":            "SQLite",
		"DATABASE_DSN":         "file:dev.db",
		"JWT_SECRET":           secret,
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example ,",
		"LOG_LEVEL":            "DEBUG",
		"LOG_FORMAT":           "json",
		"TOKEN_TTL":            "90m",
	})

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, config.Database{Driver: "sqlite", DSN: "file:dev.db"}, cfg.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOriginList())
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"unknown driver", map[string]string{"JWT_SECRET": secret, "DB_DRIVER": "mysql"}},
		{"unknown log format", map[string]string{"JWT_SECRET": secret, "LOG_FORMAT": "xml"}},
		{"bad ttl", map[string]string{"JWT_SECRET": secret, "TOKEN_TTL": "tomorrow"}},
		{"negative ttl", map[string]string{"JWT_SECRET": secret, "TOKEN_TTL": "-1h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	setEnv(t, map[string]string{})
	// godotenv never overrides variables that exist, even empty ones
	for _, k := range []string{"JWT_SECRET", "HTTP_PORT"} {
		require.NoError(t, os.Unsetenv(k))
	}
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET="+secret+"\nHTTP_PORT=7070\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.HTTPPort)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
