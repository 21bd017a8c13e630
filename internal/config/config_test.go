package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "PG_HOST", "PG_PORT", "PG_PASSWORD", "DB_RETRY_INTERVAL", "SUPABASE_URL", "SUPABASE_ANON_KEY", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "localhost", cfg.PGHost)
	assert.Equal(t, 5432, cfg.PGPort)
	assert.Equal(t, 2*time.Second, cfg.RetryInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "host=localhost port=5432 user=postgres dbname=cities sslmode=disable", cfg.PostgresDSN())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("DB_RETRY_INTERVAL", "500ms")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, 6543, cfg.PGPort)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryInterval)
	assert.Equal(t, 10, cfg.MaxOpenConns, "不正な値は既定値に戻る")
	assert.Contains(t, cfg.PostgresDSN(), "password=secret")
}

func TestDatabaseURLWins(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/geo?sslmode=require")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/geo?sslmode=require", cfg.PostgresDSN())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequireSupabase(t *testing.T) {
	cfg := &Config{SupabaseURL: "https://example.supabase.co"}
	assert.True(t, errors.Is(cfg.RequireSupabase(), ErrMissingSupabase))

	cfg.SupabaseAnonKey = "anon"
	assert.NoError(t, cfg.RequireSupabase())
}
