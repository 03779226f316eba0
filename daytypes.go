package analytics

import (
	"sort"
	"time"

	"transitmetrics.dev/analytics/model"
)

const (
	weekdayMask = 1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday |
		1<<time.Thursday | 1<<time.Friday
	saturdayMask = 1 << time.Saturday
	sundayMask   = 1 << time.Sunday
)

// Day types are derived by a fixed, ordered set of rules over
// calendar weekday flags. This is a deliberate finite classifier,
// not a rule engine.
type dayTypeRule struct {
	id    string
	label string
	match func(c *model.Calendar) bool
}

var canonicalRules = []dayTypeRule{
	{"WEEKDAY", "Weekday", func(c *model.Calendar) bool {
		return c.Weekday == weekdayMask
	}},
	{"SATURDAY", "Saturday", func(c *model.Calendar) bool {
		return c.Weekday == saturdayMask
	}},
	{"SUNDAY", "Sunday", func(c *model.Calendar) bool {
		return c.Weekday == sundayMask
	}},
}

// DeriveDayTypes groups service IDs into named day types.
//
// With calendar rules present, the three canonical rules apply. A
// service matching none of them (say, weekend-only) is dropped from
// the index whenever at least one rule matched some service; the
// "ALL" catch-all only appears when every rule came up empty.
// Downstream KPI consumers depend on this exact behavior, so don't
// "fix" the asymmetry here.
//
// Without calendar rules, services referenced by "added" exception
// dates form a single "ALL" day type; failing that, services
// referenced by trips do. There is never an empty index while at
// least one service exists.
func DeriveDayTypes(
	calendar []*model.Calendar,
	calendarDates []*model.CalendarDate,
	trips []*model.Trip,
) []*model.DayType {

	if len(calendar) > 0 {
		dayTypes := []*model.DayType{}
		for _, rule := range canonicalRules {
			serviceIDs := []string{}
			for _, c := range calendar {
				if rule.match(c) {
					serviceIDs = append(serviceIDs, c.ServiceID)
				}
			}
			if len(serviceIDs) > 0 {
				dayTypes = append(dayTypes, &model.DayType{
					ID:         rule.id,
					Label:      rule.label,
					ServiceIDs: serviceIDs,
				})
			}
		}

		if len(dayTypes) == 0 {
			serviceIDs := make([]string, 0, len(calendar))
			for _, c := range calendar {
				serviceIDs = append(serviceIDs, c.ServiceID)
			}
			dayTypes = append(dayTypes, catchAll(serviceIDs))
		}

		return dayTypes
	}

	seen := map[string]bool{}
	for _, cd := range calendarDates {
		if cd.ExceptionType == model.ExceptionAdded && cd.ServiceID != "" {
			seen[cd.ServiceID] = true
		}
	}
	if len(seen) == 0 {
		for _, trip := range trips {
			if trip.ServiceID != "" {
				seen[trip.ServiceID] = true
			}
		}
	}
	if len(seen) == 0 {
		return []*model.DayType{}
	}

	serviceIDs := make([]string, 0, len(seen))
	for id := range seen {
		serviceIDs = append(serviceIDs, id)
	}
	sort.Strings(serviceIDs)

	return []*model.DayType{catchAll(serviceIDs)}
}

func catchAll(serviceIDs []string) *model.DayType {
	return &model.DayType{
		ID:         "ALL",
		Label:      "All services",
		ServiceIDs: serviceIDs,
	}
}
