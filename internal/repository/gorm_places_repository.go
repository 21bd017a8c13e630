package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Cities-App/internal/domain/model"
	"Cities-App/internal/domain/repository"
	"Cities-App/internal/logger"
)

// GormPlacesRepository GORM 経由の地名リポジトリ
// PostgreSQL では PostGIS 関数、それ以外の方言では Go 側で空間判定する
type GormPlacesRepository struct {
	db *gorm.DB
}

func NewGormPlacesRepository(db *gorm.DB) *GormPlacesRepository {
	return &GormPlacesRepository{db: db}
}

var (
	_ repository.PlacesRepository  = (*GormPlacesRepository)(nil)
	_ repository.SpatialRepository = (*GormPlacesRepository)(nil)
)

// 各階層の祖先チェーンと別名のプリロード

func preloadCountry(db *gorm.DB) *gorm.DB {
	return db.Preload("AltNames")
}

func preloadRegion(db *gorm.DB) *gorm.DB {
	return db.Preload("AltNames").Preload("Country")
}

func preloadSubregion(db *gorm.DB) *gorm.DB {
	return db.Preload("AltNames").Preload("Region.Country")
}

func preloadCity(db *gorm.DB) *gorm.DB {
	return db.Preload("AltNames").
		Preload("Country").
		Preload("Region.Country").
		Preload("Subregion.Region.Country")
}

func preloadDistrict(db *gorm.DB) *gorm.DB {
	return db.Preload("AltNames").
		Preload("City.Country").
		Preload("City.Region.Country").
		Preload("City.Subregion.Region.Country")
}

func preloadPostalCode(db *gorm.DB) *gorm.DB {
	return db.Preload("AltNames").Preload("Country")
}

func (r *GormPlacesRepository) isPostGIS() bool {
	return r.db.Dialector.Name() == "postgres"
}

// first 主キーで 1 件取得し、見つからなければ ErrNotFound を包んで返す
func (r *GormPlacesRepository) first(ctx context.Context, dest interface{}, scope func(*gorm.DB) *gorm.DB, label string, id int64) error {
	err := r.db.WithContext(ctx).Scopes(scope).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s ID %d: %w", label, id, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s ID %d の取得失敗: %w", label, id, err)
	}
	return nil
}

func (r *GormPlacesRepository) GetCountry(ctx context.Context, id int64) (*model.Country, error) {
	var country model.Country
	if err := r.first(ctx, &country, preloadCountry, "国", id); err != nil {
		return nil, err
	}
	return &country, nil
}

func (r *GormPlacesRepository) GetCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var country model.Country
	err := r.db.WithContext(ctx).Scopes(preloadCountry).Where("code = ?", code).First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("国コード %s: %w", code, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("国コード %s の取得失敗: %w", code, err)
	}
	return &country, nil
}

func (r *GormPlacesRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := r.db.WithContext(ctx).Scopes(preloadCountry).Order("name").Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("国一覧の取得失敗: %w", err)
	}
	return countries, nil
}

func (r *GormPlacesRepository) GetRegion(ctx context.Context, id int64) (*model.Region, error) {
	var region model.Region
	if err := r.first(ctx, &region, preloadRegion, "地域", id); err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *GormPlacesRepository) GetSubregion(ctx context.Context, id int64) (*model.Subregion, error) {
	var subregion model.Subregion
	if err := r.first(ctx, &subregion, preloadSubregion, "下位地域", id); err != nil {
		return nil, err
	}
	return &subregion, nil
}

func (r *GormPlacesRepository) GetCity(ctx context.Context, id int64) (*model.City, error) {
	var city model.City
	if err := r.first(ctx, &city, preloadCity, "都市", id); err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *GormPlacesRepository) GetDistrict(ctx context.Context, id int64) (*model.District, error) {
	var district model.District
	if err := r.first(ctx, &district, preloadDistrict, "地区", id); err != nil {
		return nil, err
	}
	return &district, nil
}

func (r *GormPlacesRepository) GetPostalCode(ctx context.Context, id int64) (*model.PostalCode, error) {
	var postalCode model.PostalCode
	if err := r.first(ctx, &postalCode, preloadPostalCode, "郵便番号", id); err != nil {
		return nil, err
	}
	return &postalCode, nil
}

// FindPostalCodes countryCode が空なら全ての国から検索する
func (r *GormPlacesRepository) FindPostalCodes(ctx context.Context, countryCode, code string) ([]model.PostalCode, error) {
	query := r.db.WithContext(ctx).Scopes(preloadPostalCode).Where("code = ?", strings.TrimSpace(code))
	if countryCode != "" {
		countryIDs := r.db.Model(&model.Country{}).Select("id").Where("code = ?", strings.ToUpper(strings.TrimSpace(countryCode)))
		query = query.Where("country_id IN (?)", countryIDs)
	}

	var postalCodes []model.PostalCode
	if err := query.Order("id").Find(&postalCodes).Error; err != nil {
		return nil, fmt.Errorf("郵便番号 %s の検索失敗: %w", code, err)
	}
	return postalCodes, nil
}

// NeighbourIDs ペアは片方向にしか保存されないので両方の列を検索する
func (r *GormPlacesRepository) NeighbourIDs(ctx context.Context, countryID int64) ([]int64, error) {
	var pairs []model.CountryNeighbour
	err := r.db.WithContext(ctx).
		Where("country_id = ? OR neighbour_id = ?", countryID, countryID).
		Find(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("国 ID %d の隣接国取得失敗: %w", countryID, err)
	}

	ids := make([]int64, 0, len(pairs))
	for _, pair := range pairs {
		if other, ok := pair.Other(countryID); ok {
			ids = append(ids, other)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *GormPlacesRepository) Neighbours(ctx context.Context, countryID int64) ([]model.Country, error) {
	ids, err := r.NeighbourIDs(ctx, countryID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Country{}, nil
	}

	var countries []model.Country
	if err := r.db.WithContext(ctx).Scopes(preloadCountry).Where("id IN ?", ids).Order("name").Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("国 ID %d の隣接国取得失敗: %w", countryID, err)
	}
	return countries, nil
}

func (r *GormPlacesRepository) Resolve(ctx context.Context, level model.Level, id int64) (model.Place, error) {
	return repository.Resolve(ctx, r, level, id)
}

// CountryContaining 境界が重なる場合は人口の多い国を優先する
func (r *GormPlacesRepository) CountryContaining(ctx context.Context, point orb.Point) (*model.Country, error) {
	if !r.isPostGIS() {
		return r.countryContainingFallback(ctx, point)
	}

	var country model.Country
	err := r.db.WithContext(ctx).Scopes(preloadCountry).
		Where("boundary IS NOT NULL AND ST_Contains(boundary, ST_GeomFromText(?, ?))", pointWKT(point), model.SRID).
		Order("population DESC").
		First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("地点 %v を含む国: %w", point, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("地点 %v を含む国の検索失敗: %w", point, err)
	}
	return &country, nil
}

func (r *GormPlacesRepository) countryContainingFallback(ctx context.Context, point orb.Point) (*model.Country, error) {
	var countries []model.Country
	err := r.db.WithContext(ctx).Scopes(preloadCountry).
		Where("boundary IS NOT NULL").
		Order("population DESC").
		Find(&countries).Error
	if err != nil {
		return nil, fmt.Errorf("地点 %v を含む国の検索失敗: %w", point, err)
	}

	logger.L().Debug().Int("candidates", len(countries)).Msg("境界判定をGo側で実行します")
	for i := range countries {
		if boundaryContains(countries[i].Boundary, point) {
			return &countries[i], nil
		}
	}
	return nil, fmt.Errorf("地点 %v を含む国: %w", point, repository.ErrNotFound)
}

// NearbyCities 半径 radiusMeters 以内の都市を近い順に返す
func (r *GormPlacesRepository) NearbyCities(ctx context.Context, point orb.Point, radiusMeters float64, limit int) ([]model.City, error) {
	limit = normalizeLimit(limit)
	if !r.isPostGIS() {
		return r.nearbyCitiesFallback(ctx, point, radiusMeters, limit)
	}

	center := pointWKT(point)
	var cities []model.City
	err := r.db.WithContext(ctx).Scopes(preloadCity).
		Where("ST_DWithin(location::geography, ST_GeogFromText(?), ?)", center, radiusMeters).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ST_Distance(location::geography, ST_GeogFromText(?))",
			Vars:               []interface{}{center},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&cities).Error
	if err != nil {
		return nil, fmt.Errorf("地点 %v 周辺の都市検索失敗: %w", point, err)
	}
	return cities, nil
}

func (r *GormPlacesRepository) nearbyCitiesFallback(ctx context.Context, point orb.Point, radiusMeters float64, limit int) ([]model.City, error) {
	var cities []model.City
	if err := r.db.WithContext(ctx).Scopes(preloadCity).Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("地点 %v 周辺の都市検索失敗: %w", point, err)
	}
	return nearestCities(cities, point, radiusMeters, limit), nil
}
