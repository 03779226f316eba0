package parse

import (
	"fmt"
	"strconv"
	"time"

	"transitmetrics.dev/analytics/model"
)

func ParseCalendarDates(rows []model.Row) ([]*model.CalendarDate, error) {
	dates := make([]*model.CalendarDate, 0, len(rows))
	seenServiceDate := map[string]bool{}

	for _, row := range rows {
		// exception_type defaults to "added" when the column is
		// blank.
		exception := model.ExceptionAdded
		if v := row["exception_type"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 2 {
				return nil, fmt.Errorf("illegal exception_type: '%s'", v)
			}
			exception = model.ExceptionType(n)
		}

		if _, err := time.ParseInLocation("20060102", row["date"], time.UTC); err != nil {
			return nil, fmt.Errorf("parsing date '%s': %w", row["date"], err)
		}

		serviceDate := fmt.Sprintf("%s-%s", row["date"], row["service_id"])
		if seenServiceDate[serviceDate] {
			return nil, fmt.Errorf("duplicate service/date: '%s'", serviceDate)
		}
		seenServiceDate[serviceDate] = true

		dates = append(dates, &model.CalendarDate{
			ServiceID:     row["service_id"],
			Date:          row["date"],
			ExceptionType: exception,
		})
	}

	return dates, nil
}
