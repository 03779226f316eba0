package parse

import (
	"fmt"
	"time"

	"transitmetrics.dev/analytics/model"
)

var weekdayColumns = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

func ParseCalendar(rows []model.Row) ([]*model.Calendar, error) {
	calendars := make([]*model.Calendar, 0, len(rows))
	seen := map[string]bool{}

	for _, row := range rows {
		serviceID := row["service_id"]
		if serviceID == "" {
			return nil, fmt.Errorf("empty service_id")
		}
		if seen[serviceID] {
			return nil, fmt.Errorf("repeated service_id '%s'", serviceID)
		}
		seen[serviceID] = true

		var weekday int8
		for _, col := range weekdayColumns {
			switch row[col.name] {
			case "1":
				weekday |= 1 << col.day
			case "", "0":
			default:
				return nil, fmt.Errorf("invalid %s value '%s'", col.name, row[col.name])
			}
		}

		for _, field := range []string{"start_date", "end_date"} {
			if _, err := time.ParseInLocation("20060102", row[field], time.UTC); err != nil {
				return nil, fmt.Errorf("parsing %s for service_id '%s': %w", field, serviceID, err)
			}
		}

		calendars = append(calendars, &model.Calendar{
			ServiceID: serviceID,
			StartDate: row["start_date"],
			EndDate:   row["end_date"],
			Weekday:   weekday,
		})
	}

	return calendars, nil
}
