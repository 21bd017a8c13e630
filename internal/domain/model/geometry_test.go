package model

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(minLng, minLat, maxLng, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}}
}

func TestPoint_ValueScanRoundTrip(t *testing.T) {
	p := NewPoint(48.85341, 2.3488)

	v, err := p.Value()
	require.NoError(t, err)
	require.IsType(t, "", v)

	var got Point
	require.NoError(t, got.Scan(v))
	assert.Equal(t, p, got)
	assert.InDelta(t, 48.85341, got.Lat(), 1e-9)
	assert.InDelta(t, 2.3488, got.Lng(), 1e-9)

	// lib/pq は []byte で返す
	var fromBytes Point
	require.NoError(t, fromBytes.Scan([]byte(v.(string))))
	assert.Equal(t, p, fromBytes)
}

func TestPoint_ScanWKT(t *testing.T) {
	var p Point
	require.NoError(t, p.Scan("SRID=4326;POINT(2.3488 48.85341)"))
	assert.Equal(t, NewPoint(48.85341, 2.3488), p)

	require.NoError(t, p.Scan("POINT(10 20)"))
	assert.Equal(t, Point{10, 20}, p)
}

func TestPoint_ScanRejectsPolygon(t *testing.T) {
	var p Point
	err := p.Scan("POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))")
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)
}

func TestMultiPolygon_ValueScanRoundTrip(t *testing.T) {
	mp := MultiPolygon{square(2.2, 48.8, 2.5, 48.9)}

	v, err := mp.Value()
	require.NoError(t, err)

	var got MultiPolygon
	require.NoError(t, got.Scan(v))
	assert.Equal(t, mp, got)
}

func TestMultiPolygon_NullHandling(t *testing.T) {
	var empty MultiPolygon
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	got := MultiPolygon{square(0, 0, 1, 1)}
	require.NoError(t, got.Scan(nil))
	assert.True(t, got.IsEmpty())
}

func TestMultiPolygon_ScanPromotesPolygon(t *testing.T) {
	var got MultiPolygon
	require.NoError(t, got.Scan("POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))"))
	assert.Equal(t, MultiPolygon{square(0, 0, 1, 1)}, got)
}

func TestMultiPolygon_ScanUnsupportedType(t *testing.T) {
	var got MultiPolygon
	assert.ErrorIs(t, got.Scan(42), ErrUnsupportedGeometry)
	assert.ErrorIs(t, got.Scan("LINESTRING(0 0, 1 1)"), ErrUnsupportedGeometry)
}

func TestGeometry_JSON(t *testing.T) {
	city := City{
		PlaceFields: PlaceFields{Name: "Paris", Slug: "paris"},
		Location:    NewPoint(48.85341, 2.3488),
		Boundary:    MultiPolygon{square(2.2, 48.8, 2.5, 48.9)},
	}

	data, err := json.Marshal(city)
	require.NoError(t, err)

	var decoded City
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, city.Location, decoded.Location)
	assert.Equal(t, city.Boundary, decoded.Boundary)
}

func TestGeometry_JSONPolygonAndNull(t *testing.T) {
	var mp MultiPolygon
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`), &mp))
	assert.Equal(t, MultiPolygon{square(0, 0, 1, 1)}, mp)

	require.NoError(t, json.Unmarshal([]byte(`null`), &mp))
	assert.True(t, mp.IsEmpty())

	data, err := json.Marshal(mp)
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(data))
}

func TestGeometry_JSONHexEWKBString(t *testing.T) {
	p := NewPoint(50.8466, 4.3528)
	v, err := p.Value()
	require.NoError(t, err)

	data, err := json.Marshal(map[string]interface{}{"location": v})
	require.NoError(t, err)

	var row struct {
		Location Point `json:"location"`
	}
	require.NoError(t, json.Unmarshal(data, &row))
	assert.Equal(t, p, row.Location)
}

func TestFeature(t *testing.T) {
	f := newFixture()
	f.region.Boundary = MultiPolygon{square(1.4, 48.1, 3.6, 49.3)}

	feature := Feature(f.region)
	assert.Equal(t, f.region.Boundary.Orb(), feature.Geometry)
	assert.Equal(t, "Île-de-France", feature.Properties["name"])
	assert.Equal(t, "region", feature.Properties["level"])
	assert.Equal(t, "fr/idf", feature.Properties["url"])

	cityFeature := Feature(f.city)
	assert.Equal(t, f.city.Location.Orb(), cityFeature.Geometry)

	postalFeature := Feature(f.postal)
	assert.Equal(t, "75001", postalFeature.Properties["label"])

	fc := FeatureCollection(f.country, f.city)
	assert.Len(t, fc.Features, 2)
	assert.Nil(t, fc.Features[0].Geometry)
}
