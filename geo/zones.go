package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"transitmetrics.dev/analytics/model"
)

// LoadZones reads a GeoJSON feature collection of demand zones and
// reduces each Polygon/MultiPolygon feature to its outer-ring
// centroid. Features without a zone_id property or without a usable
// geometry are skipped; partial zone catalogs are common and not an
// error.
func LoadZones(path string) ([]*model.Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: zones file %s", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading zones file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing zones file %s: %v", model.ErrFormat, path, err)
	}

	zones := []*model.Zone{}
	for _, feature := range fc.Features {
		zoneID := propertyString(feature.Properties, "zone_id")
		if zoneID == "" {
			continue
		}

		var ring orb.Ring
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			if len(g) == 0 {
				continue
			}
			ring = g[0]
		case orb.MultiPolygon:
			if len(g) == 0 || len(g[0]) == 0 {
				continue
			}
			ring = g[0][0]
		default:
			continue
		}
		if len(ring) == 0 {
			continue
		}

		lon, lat := Centroid(ring)
		zones = append(zones, &model.Zone{ID: zoneID, Lon: lon, Lat: lat})
	}

	return zones, nil
}

// Zone identifiers show up both as strings and as bare numbers in
// the wild.
func propertyString(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}
