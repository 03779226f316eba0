package parse

import (
	"fmt"

	"github.com/pkg/errors"

	"transitmetrics.dev/analytics/model"
)

func ParseStops(rows []model.Row) ([]*model.Stop, error) {
	stops := make([]*model.Stop, 0, len(rows))
	seen := map[string]bool{}

	for i, row := range rows {
		id := row["stop_id"]
		if id == "" {
			return nil, fmt.Errorf("empty stop_id (row %d)", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("repeated stop_id '%s'", id)
		}
		seen[id] = true

		lon, err := coerceFloat(row["stop_lon"])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing stop_lon for stop_id '%s'", id)
		}
		lat, err := coerceFloat(row["stop_lat"])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing stop_lat for stop_id '%s'", id)
		}

		stops = append(stops, &model.Stop{
			ID:   id,
			Name: row["stop_name"],
			Lon:  lon,
			Lat:  lat,
		})
	}

	return stops, nil
}
