package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSupabase supabase バックエンドに必要な接続情報がない
var ErrMissingSupabase = errors.New("SUPABASE_URL と SUPABASE_ANON_KEY が必要です")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config 環境変数から読み込む設定
type Config struct {
	// Database
	Driver        string
	DatabaseURL   string
	PGHost        string
	PGPort        int
	PGUser        string
	PGPassword    string
	PGDatabase    string
	PGSSLMode     string
	SQLitePath    string
	MaxOpenConns  int
	MaxIdleConns  int
	ConnRetries   int
	RetryInterval time.Duration
	SlowQuery     time.Duration

	// Supabase (PostgREST)
	SupabaseURL     string
	SupabaseAnonKey string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load .env があれば読み込んだ上で環境変数から設定を組み立てる
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Driver:        strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		PGHost:        getEnv("PG_HOST", "localhost"),
		PGPort:        getEnvAsInt("PG_PORT", 5432),
		PGUser:        getEnv("PG_USER", "postgres"),
		PGPassword:    getEnv("PG_PASSWORD", ""),
		PGDatabase:    getEnv("PG_DB", "cities"),
		PGSSLMode:     getEnv("PG_SSLMODE", "disable"),
		SQLitePath:    getEnv("SQLITE_PATH", "cities.db"),
		MaxOpenConns:  getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:  getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnRetries:   getEnvAsInt("DB_CONNECT_RETRIES", 3),
		RetryInterval: getEnvAsDuration("DB_RETRY_INTERVAL", 2*time.Second),
		SlowQuery:     getEnvAsDuration("DB_SLOW_QUERY", 200*time.Millisecond),

		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if cfg.Driver != DriverPostgres && cfg.Driver != DriverSQLite {
		return nil, fmt.Errorf("未対応の DB_DRIVER です: %s", cfg.Driver)
	}

	return cfg, nil
}

// PostgresDSN DATABASE_URL があればそれを優先する
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.PGHost, c.PGPort, c.PGUser, c.PGDatabase, c.PGSSLMode)
	if c.PGPassword != "" {
		dsn += " password=" + c.PGPassword
	}
	return dsn
}

// RequireSupabase supabase バックエンド利用前の検証
func (c *Config) RequireSupabase() error {
	if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
		return ErrMissingSupabase
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
