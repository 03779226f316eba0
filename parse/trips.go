package parse

import (
	"fmt"

	"transitmetrics.dev/analytics/model"
)

func ParseTrips(rows []model.Row) ([]*model.Trip, error) {
	trips := make([]*model.Trip, 0, len(rows))
	seen := map[string]bool{}

	for i, row := range rows {
		id := row["trip_id"]
		if id == "" {
			return nil, fmt.Errorf("empty trip_id (row %d)", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("repeated trip_id '%s'", id)
		}
		seen[id] = true

		trips = append(trips, &model.Trip{
			ID:          id,
			RouteID:     row["route_id"],
			ServiceID:   row["service_id"],
			DirectionID: coerceDirection(row["direction_id"]),
		})
	}

	return trips, nil
}
