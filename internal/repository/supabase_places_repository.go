package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"Cities-App/internal/domain/model"
	"Cities-App/internal/domain/repository"
	"Cities-App/internal/infrastructure/database"
)

// filter PostgREST の eq フィルタ
type filter struct {
	column string
	value  string
}

func byID(column string, id int64) filter {
	return filter{column: column, value: strconv.FormatInt(id, 10)}
}

// rowFetcher テーブル単位で行を JSON 配列として取得する
type rowFetcher interface {
	fetch(ctx context.Context, table string, filters ...filter) ([]byte, error)
}

type supabaseFetcher struct {
	client *database.SupabaseClient
}

func (f *supabaseFetcher) fetch(ctx context.Context, table string, filters ...filter) ([]byte, error) {
	query := f.client.GetClient().From(table).Select("*", "exact", false)
	for _, flt := range filters {
		query = query.Eq(flt.column, flt.value)
	}
	data, count, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("%s データの取得失敗: %w", table, err)
	}
	_ = count
	return data, nil
}

// SupabasePlacesRepository PostgREST 経由の読み取り専用リポジトリ
// 親は外部キーを辿って 1 階層ずつ取得する（トランザクションではない）
type SupabasePlacesRepository struct {
	fetcher rowFetcher
}

func NewSupabasePlacesRepository(client *database.SupabaseClient) *SupabasePlacesRepository {
	return &SupabasePlacesRepository{fetcher: &supabaseFetcher{client: client}}
}

var _ repository.PlacesRepository = (*SupabasePlacesRepository)(nil)

func fetchRows[T any](ctx context.Context, f rowFetcher, table string, filters ...filter) ([]T, error) {
	data, err := f.fetch(ctx, table, filters...)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%s データのJSONアンマーシャル失敗: %w", table, err)
	}
	return rows, nil
}

func fetchByID[T any](ctx context.Context, f rowFetcher, table, label string, id int64) (*T, error) {
	rows, err := fetchRows[T](ctx, f, table, byID("id", id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s ID %d: %w", label, id, repository.ErrNotFound)
	}
	return &rows[0], nil
}

// altNameLink 多対多の中間テーブルの行
type altNameLink struct {
	AlternativeNameID int64 `json:"alternative_name_id"`
}

func (r *SupabasePlacesRepository) altNames(ctx context.Context, joinTable, ownerColumn string, ownerID int64) ([]model.AlternativeName, error) {
	links, err := fetchRows[altNameLink](ctx, r.fetcher, joinTable, byID(ownerColumn, ownerID))
	if err != nil {
		return nil, err
	}

	names := make([]model.AlternativeName, 0, len(links))
	for _, link := range links {
		alt, err := fetchByID[model.AlternativeName](ctx, r.fetcher, "alternative_names", "別名", link.AlternativeNameID)
		if err != nil {
			return nil, err
		}
		alt.Normalize()
		names = append(names, *alt)
	}
	return names, nil
}

func (r *SupabasePlacesRepository) hydrateCountry(ctx context.Context, country *model.Country) error {
	country.Normalize()
	names, err := r.altNames(ctx, "country_alt_names", "country_id", country.ID)
	if err != nil {
		return err
	}
	country.AltNames = names
	return nil
}

func (r *SupabasePlacesRepository) GetCountry(ctx context.Context, id int64) (*model.Country, error) {
	country, err := fetchByID[model.Country](ctx, r.fetcher, "countries", "国", id)
	if err != nil {
		return nil, err
	}
	if err := r.hydrateCountry(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

func (r *SupabasePlacesRepository) GetCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	countries, err := fetchRows[model.Country](ctx, r.fetcher, "countries", filter{column: "code", value: code})
	if err != nil {
		return nil, err
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("国コード %s: %w", code, repository.ErrNotFound)
	}
	country := &countries[0]
	if err := r.hydrateCountry(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

func (r *SupabasePlacesRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	countries, err := fetchRows[model.Country](ctx, r.fetcher, "countries")
	if err != nil {
		return nil, err
	}
	for i := range countries {
		if err := r.hydrateCountry(ctx, &countries[i]); err != nil {
			return nil, err
		}
	}
	sortCountries(countries)
	return countries, nil
}

func (r *SupabasePlacesRepository) GetRegion(ctx context.Context, id int64) (*model.Region, error) {
	region, err := fetchByID[model.Region](ctx, r.fetcher, "regions", "地域", id)
	if err != nil {
		return nil, err
	}
	region.Normalize()
	if region.AltNames, err = r.altNames(ctx, "region_alt_names", "region_id", id); err != nil {
		return nil, err
	}
	if region.Country, err = r.GetCountry(ctx, region.CountryID); err != nil {
		return nil, fmt.Errorf("地域 ID %d の親の取得失敗: %w", id, err)
	}
	return region, nil
}

func (r *SupabasePlacesRepository) GetSubregion(ctx context.Context, id int64) (*model.Subregion, error) {
	subregion, err := fetchByID[model.Subregion](ctx, r.fetcher, "subregions", "下位地域", id)
	if err != nil {
		return nil, err
	}
	subregion.Normalize()
	if subregion.AltNames, err = r.altNames(ctx, "subregion_alt_names", "subregion_id", id); err != nil {
		return nil, err
	}
	if subregion.Region, err = r.GetRegion(ctx, subregion.RegionID); err != nil {
		return nil, fmt.Errorf("下位地域 ID %d の親の取得失敗: %w", id, err)
	}
	return subregion, nil
}

func (r *SupabasePlacesRepository) GetCity(ctx context.Context, id int64) (*model.City, error) {
	city, err := fetchByID[model.City](ctx, r.fetcher, "cities", "都市", id)
	if err != nil {
		return nil, err
	}
	city.Normalize()
	if city.AltNames, err = r.altNames(ctx, "city_alt_names", "city_id", id); err != nil {
		return nil, err
	}
	if city.RegionID != nil {
		if city.Region, err = r.GetRegion(ctx, *city.RegionID); err != nil {
			return nil, fmt.Errorf("都市 ID %d の地域の取得失敗: %w", id, err)
		}
	}
	if city.SubregionID != nil {
		if city.Subregion, err = r.GetSubregion(ctx, *city.SubregionID); err != nil {
			return nil, fmt.Errorf("都市 ID %d の下位地域の取得失敗: %w", id, err)
		}
	}
	if city.Country, err = r.GetCountry(ctx, city.CountryID); err != nil {
		return nil, fmt.Errorf("都市 ID %d の国の取得失敗: %w", id, err)
	}
	return city, nil
}

func (r *SupabasePlacesRepository) GetDistrict(ctx context.Context, id int64) (*model.District, error) {
	district, err := fetchByID[model.District](ctx, r.fetcher, "districts", "地区", id)
	if err != nil {
		return nil, err
	}
	district.Normalize()
	if district.AltNames, err = r.altNames(ctx, "district_alt_names", "district_id", id); err != nil {
		return nil, err
	}
	if district.City, err = r.GetCity(ctx, district.CityID); err != nil {
		return nil, fmt.Errorf("地区 ID %d の親の取得失敗: %w", id, err)
	}
	return district, nil
}

func (r *SupabasePlacesRepository) GetPostalCode(ctx context.Context, id int64) (*model.PostalCode, error) {
	postalCode, err := fetchByID[model.PostalCode](ctx, r.fetcher, "postal_codes", "郵便番号", id)
	if err != nil {
		return nil, err
	}
	if err := r.hydratePostalCode(ctx, postalCode, nil); err != nil {
		return nil, err
	}
	return postalCode, nil
}

// hydratePostalCode countries は同じ国の再取得を避けるためのキャッシュ（nil 可）
func (r *SupabasePlacesRepository) hydratePostalCode(ctx context.Context, postalCode *model.PostalCode, countries map[int64]*model.Country) error {
	postalCode.Normalize()

	names, err := r.altNames(ctx, "postal_code_alt_names", "postal_code_id", postalCode.ID)
	if err != nil {
		return err
	}
	postalCode.AltNames = names

	if country, ok := countries[postalCode.CountryID]; ok {
		postalCode.Country = country
		return nil
	}
	country, err := r.GetCountry(ctx, postalCode.CountryID)
	if err != nil {
		return fmt.Errorf("郵便番号 ID %d の国の取得失敗: %w", postalCode.ID, err)
	}
	if countries != nil {
		countries[country.ID] = country
	}
	postalCode.Country = country
	return nil
}

func (r *SupabasePlacesRepository) FindPostalCodes(ctx context.Context, countryCode, code string) ([]model.PostalCode, error) {
	filters := []filter{{column: "code", value: strings.TrimSpace(code)}}
	countries := map[int64]*model.Country{}

	if countryCode != "" {
		country, err := r.GetCountryByCode(ctx, countryCode)
		if errors.Is(err, repository.ErrNotFound) {
			return []model.PostalCode{}, nil
		}
		if err != nil {
			return nil, err
		}
		countries[country.ID] = country
		filters = append(filters, byID("country_id", country.ID))
	}

	postalCodes, err := fetchRows[model.PostalCode](ctx, r.fetcher, "postal_codes", filters...)
	if err != nil {
		return nil, err
	}
	for i := range postalCodes {
		if err := r.hydratePostalCode(ctx, &postalCodes[i], countries); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(postalCodes, func(i, j int) bool { return postalCodes[i].ID < postalCodes[j].ID })
	return postalCodes, nil
}

func (r *SupabasePlacesRepository) NeighbourIDs(ctx context.Context, countryID int64) ([]int64, error) {
	var pairs []model.CountryNeighbour
	for _, column := range []string{"country_id", "neighbour_id"} {
		rows, err := fetchRows[model.CountryNeighbour](ctx, r.fetcher, "country_neighbours", byID(column, countryID))
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, rows...)
	}

	seen := make(map[int64]bool, len(pairs))
	ids := make([]int64, 0, len(pairs))
	for _, pair := range pairs {
		other, ok := pair.Other(countryID)
		if !ok || seen[other] {
			continue
		}
		seen[other] = true
		ids = append(ids, other)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *SupabasePlacesRepository) Neighbours(ctx context.Context, countryID int64) ([]model.Country, error) {
	ids, err := r.NeighbourIDs(ctx, countryID)
	if err != nil {
		return nil, err
	}

	countries := make([]model.Country, 0, len(ids))
	for _, id := range ids {
		country, err := r.GetCountry(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("国 ID %d の隣接国の取得失敗: %w", countryID, err)
		}
		countries = append(countries, *country)
	}
	sortCountries(countries)
	return countries, nil
}

func (r *SupabasePlacesRepository) Resolve(ctx context.Context, level model.Level, id int64) (model.Place, error) {
	return repository.Resolve(ctx, r, level, id)
}

func sortCountries(countries []model.Country) {
	sort.SliceStable(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })
}
