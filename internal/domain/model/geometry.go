package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SRID 全ジオメトリは WGS84 で保持する
const SRID = 4326

// ErrUnsupportedGeometry 想定外のジオメトリ型
var ErrUnsupportedGeometry = errors.New("unsupported geometry")

// Point PostGIS geometry(Point,4326) カラム [longitude, latitude]
type Point orb.Point

// NewPoint 緯度経度から Point を作成
func NewPoint(lat, lng float64) Point {
	return Point{lng, lat}
}

func (p Point) Orb() orb.Point { return orb.Point(p) }

func (p Point) Lat() float64 { return p[1] }

func (p Point) Lng() float64 { return p[0] }

func (p Point) String() string {
	return wkt.MarshalString(orb.Point(p))
}

// Value 16進 EWKB として書き込む
func (p Point) Value() (driver.Value, error) {
	return encodeEWKB(orb.Point(p))
}

// Scan 16進 EWKB / EWKB / WKT を読み込む
func (p *Point) Scan(src interface{}) error {
	g, err := decodeGeometry(src)
	if err != nil {
		return err
	}
	switch v := g.(type) {
	case nil:
		*p = Point{}
	case orb.Point:
		*p = Point(v)
	default:
		return fmt.Errorf("%w: Point カラムに %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
	return nil
}

func (Point) GormDataType() string { return "geometry" }

func (Point) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return geometryColumnType(db, "Point")
}

func (p Point) MarshalJSON() ([]byte, error) {
	return geojson.NewGeometry(orb.Point(p)).MarshalJSON()
}

func (p *Point) UnmarshalJSON(data []byte) error {
	g, err := unmarshalGeoJSON(data)
	if err != nil {
		return err
	}
	switch v := g.(type) {
	case nil:
		*p = Point{}
	case orb.Point:
		*p = Point(v)
	default:
		return fmt.Errorf("%w: Point に %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
	return nil
}

// MultiPolygon PostGIS geometry(MultiPolygon,4326) カラム（nil は NULL）
type MultiPolygon orb.MultiPolygon

func (m MultiPolygon) Orb() orb.MultiPolygon { return orb.MultiPolygon(m) }

func (m MultiPolygon) IsEmpty() bool { return len(m) == 0 }

func (m MultiPolygon) Bound() orb.Bound {
	return orb.MultiPolygon(m).Bound()
}

func (m MultiPolygon) Value() (driver.Value, error) {
	if m.IsEmpty() {
		return nil, nil
	}
	return encodeEWKB(orb.MultiPolygon(m))
}

func (m *MultiPolygon) Scan(src interface{}) error {
	g, err := decodeGeometry(src)
	if err != nil {
		return err
	}
	mp, err := toMultiPolygon(g)
	if err != nil {
		return err
	}
	*m = mp
	return nil
}

func (MultiPolygon) GormDataType() string { return "geometry" }

func (MultiPolygon) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return geometryColumnType(db, "MultiPolygon")
}

func (m MultiPolygon) MarshalJSON() ([]byte, error) {
	if m.IsEmpty() {
		return []byte("null"), nil
	}
	return geojson.NewGeometry(orb.MultiPolygon(m)).MarshalJSON()
}

func (m *MultiPolygon) UnmarshalJSON(data []byte) error {
	g, err := unmarshalGeoJSON(data)
	if err != nil {
		return err
	}
	mp, err := toMultiPolygon(g)
	if err != nil {
		return err
	}
	*m = mp
	return nil
}

// toMultiPolygon Polygon は要素1つの MultiPolygon に昇格する
func toMultiPolygon(g orb.Geometry) (MultiPolygon, error) {
	switch v := g.(type) {
	case nil:
		return nil, nil
	case orb.MultiPolygon:
		return MultiPolygon(v), nil
	case orb.Polygon:
		return MultiPolygon{v}, nil
	default:
		return nil, fmt.Errorf("%w: MultiPolygon カラムに %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}

func geometryColumnType(db *gorm.DB, geometryType string) string {
	if db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("geometry(%s,%d)", geometryType, SRID)
	}
	return "text"
}

func encodeEWKB(g orb.Geometry) (driver.Value, error) {
	data, err := ewkb.Marshal(g, SRID)
	if err != nil {
		return nil, fmt.Errorf("EWKB エンコード失敗: %w", err)
	}
	return hex.EncodeToString(data), nil
}

// decodeGeometry lib/pq は geometry を16進 EWKB テキストで返す
func decodeGeometry(src interface{}) (orb.Geometry, error) {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil, fmt.Errorf("%w: 型 %T は読み込めません", ErrUnsupportedGeometry, src)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	// テキスト表現（16進 EWKB / WKT）
	if isPrintable(raw) {
		text := string(raw)
		if data, err := hex.DecodeString(text); err == nil {
			return unmarshalEWKB(data)
		}
		g, err := wkt.Unmarshal(stripSRID(text))
		if err != nil {
			return nil, fmt.Errorf("WKT デコード失敗: %w", err)
		}
		return g, nil
	}
	return unmarshalEWKB(raw)
}

func unmarshalEWKB(data []byte) (orb.Geometry, error) {
	g, _, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("EWKB デコード失敗: %w", err)
	}
	return g, nil
}

// stripSRID "SRID=4326;POINT(...)" 形式の接頭辞を除去
func stripSRID(s string) string {
	if strings.HasPrefix(strings.ToUpper(s), "SRID=") {
		if i := strings.IndexByte(s, ';'); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

func isPrintable(data []byte) bool {
	for _, b := range data {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}

func unmarshalGeoJSON(data []byte) (orb.Geometry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	// PostgREST は設定次第で 16進 EWKB 文字列を返す
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, fmt.Errorf("ジオメトリ文字列のデコード失敗: %w", err)
		}
		return decodeGeometry(text)
	}
	g, err := geojson.UnmarshalGeometry(trimmed)
	if err != nil {
		return nil, fmt.Errorf("GeoJSON デコード失敗: %w", err)
	}
	return g.Geometry(), nil
}
