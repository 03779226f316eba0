package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"transitmetrics.dev/analytics/model"
)

type socioCSV struct {
	ZoneID     string `csv:"zone_id"`
	Population int    `csv:"population"`
	Jobs       int    `csv:"jobs"`
	Schools    int    `csv:"schools"`
}

// LoadSocio reads per-zone population/jobs/schools counts from a
// delimited file or a (Geo)JSON document keyed by zone_id. An empty
// path or an absent file yields no socio data, which is a valid
// empty-result condition; malformed content is an error.
func LoadSocio(path string) (map[string]model.SocioMetrics, error) {
	metrics := map[string]model.SocioMetrics{}
	if path == "" {
		return metrics, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return metrics, nil
		}
		return nil, fmt.Errorf("reading socio file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows := []*socioCSV{}
		if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
			return nil, fmt.Errorf("%w: parsing socio file %s: %v", model.ErrFormat, path, err)
		}
		for _, row := range rows {
			if row.ZoneID == "" {
				continue
			}
			metrics[row.ZoneID] = model.SocioMetrics{
				Population: row.Population,
				Jobs:       row.Jobs,
				Schools:    row.Schools,
			}
		}
	case ".json", ".geojson":
		if err := parseSocioJSON(data, metrics); err != nil {
			return nil, fmt.Errorf("%w: parsing socio file %s: %v", model.ErrFormat, path, err)
		}
	}

	return metrics, nil
}

// Accepts either a GeoJSON feature collection (counts in feature
// properties) or a flat array of records.
func parseSocioJSON(data []byte, metrics map[string]model.SocioMetrics) error {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	var records []any
	switch doc := payload.(type) {
	case map[string]any:
		features, ok := doc["features"].([]any)
		if !ok {
			return fmt.Errorf("expected a feature collection or an array")
		}
		records = features
	case []any:
		records = doc
	default:
		return fmt.Errorf("expected a feature collection or an array")
	}

	for _, record := range records {
		item, ok := record.(map[string]any)
		if !ok {
			continue
		}
		props := item
		if p, ok := item["properties"].(map[string]any); ok {
			props = p
		}
		zoneID := anyString(props["zone_id"])
		if zoneID == "" {
			continue
		}
		metrics[zoneID] = model.SocioMetrics{
			Population: anyInt(props["population"]),
			Jobs:       anyInt(props["jobs"]),
			Schools:    anyInt(props["schools"]),
		}
	}

	return nil
}

func anyString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func anyInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
