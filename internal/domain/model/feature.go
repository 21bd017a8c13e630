package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry 境界があれば境界、なければ代表点を返す
func Geometry(p Place) orb.Geometry {
	switch v := p.(type) {
	case *Country:
		return boundaryOr(v.Boundary, nil)
	case *Region:
		return boundaryOr(v.Boundary, nil)
	case *Subregion:
		return boundaryOr(v.Boundary, nil)
	case *City:
		return boundaryOr(v.Boundary, v.Location.Orb())
	case *District:
		return boundaryOr(v.Boundary, v.Location.Orb())
	case *PostalCode:
		return boundaryOr(v.Boundary, v.Location.Orb())
	}
	return nil
}

func boundaryOr(boundary MultiPolygon, fallback orb.Geometry) orb.Geometry {
	if !boundary.IsEmpty() {
		return boundary.Orb()
	}
	return fallback
}

// Feature 地名を GeoJSON Feature に変換する
func Feature(p Place) *geojson.Feature {
	f := geojson.NewFeature(Geometry(p))
	f.Properties["name"] = p.DisplayName()
	f.Properties["label"] = p.String()
	f.Properties["slug"] = p.PathSlug()
	f.Properties["level"] = p.Level().String()
	f.Properties["url"] = AbsoluteURL(p)
	return f
}

func FeatureCollection(places ...Place) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range places {
		fc.Append(Feature(p))
	}
	return fc
}
