package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"Cities-App/internal/config"
	"Cities-App/internal/logger"
)

// Client 生の接続と GORM ハンドルの組
type Client struct {
	DB   *sql.DB
	Gorm *gorm.DB
}

// NewPostgreSQLClient PostgreSQL（PostGIS）へ接続する
func NewPostgreSQLClient(cfg *config.Config) (*Client, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	// 接続テスト
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), gormConfig(cfg))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("GORMの初期化に失敗: %w", err)
	}

	return &Client{DB: db, Gorm: gdb}, nil
}

// NewPostgreSQLClientWithRetry 起動直後の DB 待ちのため ConnRetries 回まで再試行する
func NewPostgreSQLClientWithRetry(ctx context.Context, cfg *config.Config) (*Client, error) {
	attempts := cfg.ConnRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := NewPostgreSQLClient(cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.L().Warn().Err(err).Int("attempt", i).Int("max", attempts).Msg("PostgreSQL接続を再試行します")

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("%d回試行しましたが接続できませんでした: %w", attempts, lastErr)
}

func gormConfig(cfg *config.Config) *gorm.Config {
	return &gorm.Config{
		Logger: logger.NewGormLogger(*logger.L(), cfg.SlowQuery),
	}
}

// Dialect 接続先の方言名（"postgres" / "sqlite"）
func (c *Client) Dialect() string {
	return c.Gorm.Dialector.Name()
}

// Close データベース接続を閉じる
func (c *Client) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("データベースクライアントが初期化されていません")
	}
	return c.DB.PingContext(ctx)
}
