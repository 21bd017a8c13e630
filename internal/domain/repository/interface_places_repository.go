package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"Cities-App/internal/domain/model"
)

// ErrNotFound 対象の行が存在しない
var ErrNotFound = errors.New("place not found")

// PlacesRepository 地名の読み取り専用リポジトリ
// Get 系は祖先チェーンと別名をロード済みの状態で返す
type PlacesRepository interface {
	GetCountry(ctx context.Context, id int64) (*model.Country, error)
	GetCountryByCode(ctx context.Context, code string) (*model.Country, error)
	ListCountries(ctx context.Context) ([]model.Country, error)
	GetRegion(ctx context.Context, id int64) (*model.Region, error)
	GetSubregion(ctx context.Context, id int64) (*model.Subregion, error)
	GetCity(ctx context.Context, id int64) (*model.City, error)
	GetDistrict(ctx context.Context, id int64) (*model.District, error)
	GetPostalCode(ctx context.Context, id int64) (*model.PostalCode, error)
	FindPostalCodes(ctx context.Context, countryCode, code string) ([]model.PostalCode, error)

	// 隣接国（無向ペアの両方向を検索）
	NeighbourIDs(ctx context.Context, countryID int64) ([]int64, error)
	Neighbours(ctx context.Context, countryID int64) ([]model.Country, error)

	Resolve(ctx context.Context, level model.Level, id int64) (model.Place, error)
}

// SpatialRepository 空間検索
type SpatialRepository interface {
	CountryContaining(ctx context.Context, point orb.Point) (*model.Country, error)
	NearbyCities(ctx context.Context, point orb.Point, radiusMeters float64, limit int) ([]model.City, error)
}

// Resolve 階層種別に応じた Get を呼び出す
// エラー時は型付き nil ではなく nil の Place を返す
func Resolve(ctx context.Context, repo PlacesRepository, level model.Level, id int64) (model.Place, error) {
	var (
		place model.Place
		err   error
	)
	switch level {
	case model.LevelCountry:
		place, err = repo.GetCountry(ctx, id)
	case model.LevelRegion:
		place, err = repo.GetRegion(ctx, id)
	case model.LevelSubregion:
		place, err = repo.GetSubregion(ctx, id)
	case model.LevelCity:
		place, err = repo.GetCity(ctx, id)
	case model.LevelDistrict:
		place, err = repo.GetDistrict(ctx, id)
	case model.LevelPostalCode:
		place, err = repo.GetPostalCode(ctx, id)
	default:
		return nil, fmt.Errorf("未知の階層種別です: %s", level)
	}
	if err != nil {
		return nil, err
	}
	return place, nil
}
