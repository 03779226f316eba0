package geo_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitmetrics.dev/analytics/geo"
	"transitmetrics.dev/analytics/model"
)

func TestCentroid(t *testing.T) {
	// Unit square, with the closing vertex repeated.
	lon, lat := geo.Centroid(orb.Ring{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0},
	})
	assert.InDelta(t, 1.0, lon, 1e-9)
	assert.InDelta(t, 1.0, lat, 1e-9)

	// Clockwise winding gives the same point.
	lon, lat = geo.Centroid(orb.Ring{
		{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0},
	})
	assert.InDelta(t, 1.0, lon, 1e-9)
	assert.InDelta(t, 1.0, lat, 1e-9)
}

func TestCentroidDegenerate(t *testing.T) {
	// Collinear vertices enclose no area: fall back to the vertex
	// mean.
	lon, lat := geo.Centroid(orb.Ring{
		{0, 0}, {1, 1}, {2, 2},
	})
	assert.InDelta(t, 1.0, lon, 1e-9)
	assert.InDelta(t, 1.0, lat, 1e-9)
}

func TestHaversineMeters(t *testing.T) {
	assert.Equal(t, 0.0, geo.HaversineMeters(2.17, 41.39, 2.17, 41.39))

	// One degree of latitude is ~111.2 km.
	d := geo.HaversineMeters(0, 0, 0, 1)
	assert.InDelta(t, 111195, d, 100)

	// Barcelona to Madrid is roughly 505 km.
	d = geo.HaversineMeters(2.1734, 41.3851, -3.7038, 40.4168)
	assert.InDelta(t, 505000, d, 5000)
}

func TestTravelMinutes(t *testing.T) {
	// 5 km at 25 km/h is 12 minutes, plus a 5-minute penalty.
	assert.InDelta(t, 17.0, geo.TravelMinutes(5000, 25, 5), 1e-9)
	assert.InDelta(t, 5.0, geo.TravelMinutes(0, 25, 5), 1e-9)
}

func TestLoadZones(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"zone_id": "Z1"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]
				}
			},
			{
				"type": "Feature",
				"properties": {"zone_id": 42},
				"geometry": {
					"type": "MultiPolygon",
					"coordinates": [[[[10,10],[12,10],[12,12],[10,12],[10,10]]]]
				}
			},
			{
				"type": "Feature",
				"properties": {"name": "no id"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]
				}
			},
			{
				"type": "Feature",
				"properties": {"zone_id": "point"},
				"geometry": {"type": "Point", "coordinates": [5, 5]}
			}
		]
	}`), 0o644))

	zones, err := geo.LoadZones(path)
	require.NoError(t, err)
	require.Len(t, zones, 2)

	assert.Equal(t, "Z1", zones[0].ID)
	assert.InDelta(t, 1.0, zones[0].Lon, 1e-9)
	assert.InDelta(t, 1.0, zones[0].Lat, 1e-9)

	// Numeric zone ids are normalized to strings.
	assert.Equal(t, "42", zones[1].ID)
	assert.InDelta(t, 11.0, zones[1].Lon, 1e-9)
}

func TestLoadZonesMissing(t *testing.T) {
	_, err := geo.LoadZones(filepath.Join(t.TempDir(), "nope.geojson"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestLoadZonesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.geojson")
	require.NoError(t, os.WriteFile(path, []byte("not geojson"), 0o644))

	_, err := geo.LoadZones(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrFormat))
}

func TestLoadSocioCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socio.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"zone_id,population,jobs,schools\nZ1,1200,450,3\nZ2,800,120,1\n",
	), 0o644))

	socio, err := geo.LoadSocio(path)
	require.NoError(t, err)
	require.Len(t, socio, 2)
	assert.Equal(t, model.SocioMetrics{Population: 1200, Jobs: 450, Schools: 3}, socio["Z1"])
	assert.Equal(t, model.SocioMetrics{Population: 800, Jobs: 120, Schools: 1}, socio["Z2"])
}

func TestLoadSocioJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socio.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"zone_id": "Z1", "population": 1200, "jobs": 450, "schools": 3}
	]`), 0o644))

	socio, err := geo.LoadSocio(path)
	require.NoError(t, err)
	assert.Equal(t, model.SocioMetrics{Population: 1200, Jobs: 450, Schools: 3}, socio["Z1"])
}

func TestLoadSocioGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socio.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"zone_id": "Z1", "population": 900, "jobs": 50, "schools": 2},
				"geometry": null
			}
		]
	}`), 0o644))

	socio, err := geo.LoadSocio(path)
	require.NoError(t, err)
	assert.Equal(t, model.SocioMetrics{Population: 900, Jobs: 50, Schools: 2}, socio["Z1"])
}

func TestLoadSocioAbsent(t *testing.T) {
	socio, err := geo.LoadSocio("")
	require.NoError(t, err)
	assert.Empty(t, socio)

	socio, err = geo.LoadSocio(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, socio)
}

func TestLoadSocioMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socio.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := geo.LoadSocio(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrFormat))
}
