package parse

import (
	"transitmetrics.dev/analytics/model"
)

// Provider returns the display name of the feed's operator, taken
// from the first agency row. Agency data is optional.
func Provider(rows []model.Row) string {
	if len(rows) == 0 {
		return ""
	}
	return rows[0]["agency_name"]
}
