package parse

import (
	"fmt"

	"github.com/pkg/errors"

	"transitmetrics.dev/analytics/gtfstime"
	"transitmetrics.dev/analytics/model"
)

func ParseStopTimes(rows []model.Row) ([]*model.StopTime, error) {
	stopTimes := make([]*model.StopTime, 0, len(rows))

	for i, row := range rows {
		if row["trip_id"] == "" {
			return nil, fmt.Errorf("missing trip_id (row %d)", i+1)
		}
		if row["stop_id"] == "" {
			return nil, fmt.Errorf("missing stop_id (row %d)", i+1)
		}

		seq, err := coerceUint(row["stop_sequence"])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing stop_sequence (row %d)", i+1)
		}

		departure, err := gtfstime.Parse(row["departure_time"])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing departure_time (row %d)", i+1)
		}

		stopTimes = append(stopTimes, &model.StopTime{
			TripID:       row["trip_id"],
			StopID:       row["stop_id"],
			StopSequence: seq,
			Departure:    departure,
		})
	}

	return stopTimes, nil
}
