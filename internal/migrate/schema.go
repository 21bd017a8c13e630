package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"Cities-App/internal/domain/model"
	"Cities-App/internal/logger"
)

// Models 移行対象のモデル。親テーブルが先
func Models() []interface{} {
	return []interface{}{
		&model.AlternativeName{},
		&model.Country{},
		&model.CountryNeighbour{},
		&model.Region{},
		&model.Subregion{},
		&model.City{},
		&model.District{},
		&model.PostalCode{},
	}
}

// spatialColumns GIST インデックスを張るジオメトリ列
var spatialColumns = []struct {
	table  string
	column string
}{
	{"countries", "boundary"},
	{"regions", "boundary"},
	{"subregions", "boundary"},
	{"cities", "location"},
	{"cities", "boundary"},
	{"districts", "location"},
	{"districts", "boundary"},
	{"postal_codes", "location"},
	{"postal_codes", "boundary"},
}

// EnsureSchema 初回起動時に必要なテーブルとインデックスを作成する
// 何度実行しても同じ結果になる
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	postgis := db.Dialector.Name() == "postgres"

	if postgis {
		if err := tx.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
			return fmt.Errorf("postgis 拡張の作成に失敗: %w", err)
		}
	}

	for _, m := range Models() {
		if err := tx.AutoMigrate(m); err != nil {
			return fmt.Errorf("%T の移行に失敗: %w", m, err)
		}
		logger.L().Debug().Str("model", fmt.Sprintf("%T", m)).Msg("schema_migrated")
	}

	if !postgis {
		return nil
	}
	for _, sc := range spatialColumns {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s_gist ON %s USING GIST (%s)",
			sc.table, sc.column, sc.table, sc.column)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("%s.%s の空間インデックス作成に失敗: %w", sc.table, sc.column, err)
		}
	}
	logger.L().Debug().Msg("schema_done")
	return nil
}
