package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"Cities-App/internal/config"
)

// NewSQLiteClient 開発・テスト用の SQLite 接続
// 空間関数は使えないので空間検索はストア側で Go にフォールバックする
func NewSQLiteClient(cfg *config.Config) (*Client, error) {
	return OpenSQLite(cfg.SQLitePath, gormConfig(cfg))
}

// OpenSQLite path は ":memory:" や "file:x?mode=memory&cache=shared" も可
func OpenSQLite(path string, gcfg *gorm.Config) (*Client, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{}
	}
	gdb, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, fmt.Errorf("SQLiteの初期化に失敗: %w", err)
	}
	db, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("SQLite接続の取得に失敗: %w", err)
	}
	return &Client{DB: db, Gorm: gdb}, nil
}
