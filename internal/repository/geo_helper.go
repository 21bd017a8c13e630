package repository

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"Cities-App/internal/domain/model"
)

// defaultNearbyLimit limit 未指定時の件数上限
const defaultNearbyLimit = 50

// pointWKT PostGIS に渡す WKT（経度 緯度の順）
func pointWKT(point orb.Point) string {
	return wkt.MarshalString(point)
}

// boundaryContains 境界ボックスで絞ってから平面の内外判定を行う
func boundaryContains(boundary model.MultiPolygon, point orb.Point) bool {
	if boundary.IsEmpty() {
		return false
	}
	if !boundary.Bound().Contains(point) {
		return false
	}
	return planar.MultiPolygonContains(boundary.Orb(), point)
}

// nearestCities 半径内の都市を近い順に最大 limit 件返す
func nearestCities(cities []model.City, center orb.Point, radiusMeters float64, limit int) []model.City {
	// 半径を覆う矩形で粗く絞る
	bound := geo.NewBoundAroundPoint(center, radiusMeters)

	type candidate struct {
		city     model.City
		distance float64
	}
	var candidates []candidate
	for _, city := range cities {
		location := city.Location.Orb()
		if !bound.Contains(location) {
			continue
		}
		d := geo.DistanceHaversine(center, location)
		if d <= radiusMeters {
			candidates = append(candidates, candidate{city: city, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	result := make([]model.City, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.city)
	}
	return result
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultNearbyLimit
	}
	return limit
}
