package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"Cities-App/internal/domain/model"
	"Cities-App/internal/migrate"
)

// テスト用の ID
const (
	franceID  int64 = 1
	belgiumID int64 = 2
	germanyID int64 = 3
	monacoID  int64 = 4
	spainID   int64 = 5

	idfID        int64 = 10
	parisDepID   int64 = 20
	parisID      int64 = 100
	versaillesID int64 = 101
	lyonID       int64 = 102
	monacoCityID int64 = 103
	louvreID     int64 = 200
	postal75001  int64 = 300
	postalBE1000 int64 = 301
)

func int64Ptr(v int64) *int64 { return &v }

func rect(minLng, minLat, maxLng, maxLat float64) model.MultiPolygon {
	return model.MultiPolygon{{{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}}}
}

// newTestDB テスト毎に独立したインメモリ SQLite を用意する
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, migrate.EnsureSchema(context.Background(), db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// seedPlaces フランス周辺の小さな地名データ
func seedPlaces(t *testing.T, db *gorm.DB) {
	t.Helper()

	countries := []model.Country{
		{ID: franceID, PlaceFields: model.PlaceFields{Name: "France", Slug: "france"}, Code: "FR", Code3: "FRA", Population: 67000000, Continent: "EU", TLD: ".fr", Capital: "Paris", Boundary: rect(-5, 42, 8, 51)},
		{ID: belgiumID, PlaceFields: model.PlaceFields{Name: "Belgium", Slug: "belgium"}, Code: "BE", Code3: "BEL", Population: 11000000, Continent: "EU", Boundary: rect(2.5, 49.5, 6.4, 51.5)},
		{ID: germanyID, PlaceFields: model.PlaceFields{Name: "Germany", Slug: "germany"}, Code: "DE", Code3: "DEU", Population: 83000000, Continent: "EU"},
		{ID: monacoID, PlaceFields: model.PlaceFields{Name: "Monaco", Slug: "monaco"}, Code: "MC", Code3: "MCO", Population: 39000, Continent: "EU"},
		{ID: spainID, PlaceFields: model.PlaceFields{Name: "Spain", Slug: "spain"}, Code: "ES", Code3: "ESP", Population: 47000000, Continent: "EU"},
	}
	countries[0].AltNames = []model.AlternativeName{
		{ID: 1, Name: "Frankreich", Language: "de", IsPreferred: true},
		{ID: 2, Name: "Francia", Language: "es", IsPreferred: true},
	}
	require.NoError(t, db.Create(&countries).Error)

	for _, pair := range [][2]int64{{franceID, belgiumID}, {germanyID, franceID}, {spainID, franceID}, {belgiumID, germanyID}} {
		neighbour, err := model.NewCountryNeighbour(pair[0], pair[1])
		require.NoError(t, err)
		require.NoError(t, db.Create(&neighbour).Error)
	}

	require.NoError(t, db.Create(&model.Region{
		ID: idfID, PlaceFields: model.PlaceFields{Name: "Île-de-France", Slug: "ile-de-france"},
		NameStd: "Ile-de-France", Code: "11", CountryID: franceID,
	}).Error)
	require.NoError(t, db.Create(&model.Subregion{
		ID: parisDepID, PlaceFields: model.PlaceFields{Name: "Paris", Slug: "paris-dep"},
		NameStd: "Paris", Code: "75", RegionID: idfID,
	}).Error)

	cities := []model.City{
		{
			ID: parisID, PlaceFields: model.PlaceFields{Name: "Paris", Slug: "paris"}, NameStd: "Paris",
			Location: model.NewPoint(48.8566, 2.3522), Population: 2100000,
			RegionID: int64Ptr(idfID), SubregionID: int64Ptr(parisDepID), CountryID: franceID,
			Kind: "PPLC", Timezone: "Europe/Paris",
			AltNames: []model.AlternativeName{{ID: 3, Name: "Parigi", Language: "it", IsPreferred: true}},
		},
		{
			ID: versaillesID, PlaceFields: model.PlaceFields{Name: "Versailles", Slug: "versailles"}, NameStd: "Versailles",
			Location: model.NewPoint(48.8049, 2.1204), Population: 85000,
			RegionID: int64Ptr(idfID), CountryID: franceID, Kind: "PPLA2", Timezone: "Europe/Paris",
		},
		{
			ID: lyonID, PlaceFields: model.PlaceFields{Name: "Lyon", Slug: "lyon"}, NameStd: "Lyon",
			Location: model.NewPoint(45.764, 4.8357), Population: 520000,
			CountryID: franceID, Kind: "PPLA", Timezone: "Europe/Paris",
		},
		{
			ID: monacoCityID, PlaceFields: model.PlaceFields{Name: "Monaco", Slug: "monaco"}, NameStd: "Monaco",
			Location: model.NewPoint(43.7384, 7.4246), Population: 39000,
			CountryID: monacoID, Kind: "PPLC", Timezone: "Europe/Monaco",
		},
	}
	require.NoError(t, db.Create(&cities).Error)

	require.NoError(t, db.Create(&model.District{
		ID: louvreID, PlaceFields: model.PlaceFields{Name: "Louvre", Slug: "louvre"}, NameStd: "Louvre",
		Location: model.NewPoint(48.8606, 2.3376), Population: 16000, CityID: parisID,
	}).Error)

	postalCodes := []model.PostalCode{
		{
			ID: postal75001, PlaceFields: model.PlaceFields{Name: "Paris 01", Slug: "75001"}, Code: "75001",
			Location: model.NewPoint(48.8592, 2.3417), CountryID: franceID,
			RegionName: "Île-de-France", SubregionName: "Paris", DistrictName: "Louvre",
		},
		{
			ID: postalBE1000, PlaceFields: model.PlaceFields{Name: "Bruxelles", Slug: "1000"}, Code: "1000",
			Location: model.NewPoint(50.8466, 4.3528), CountryID: belgiumID, RegionName: "Bruxelles-Capitale",
		},
	}
	require.NoError(t, db.Create(&postalCodes).Error)
}

func newSeededRepository(t *testing.T) *GormPlacesRepository {
	t.Helper()
	db := newTestDB(t)
	seedPlaces(t, db)
	return NewGormPlacesRepository(db)
}

// paris 近傍の座標
var parisCenter = orb.Point{2.3522, 48.8566}
