package analytics

import (
	"sort"

	"transitmetrics.dev/analytics/geo"
	"transitmetrics.dev/analytics/model"
)

// Parameters for the accessibility proxy. Empty thresholds and
// non-positive speed fall back to the package defaults; a negative
// penalty means unset, since zero is a legitimate penalty.
type AccessibilityParams struct {
	Thresholds         []int // minutes
	SpeedKmh           float64
	BoardingPenaltyMin float64
}

func (p AccessibilityParams) withDefaults() AccessibilityParams {
	if len(p.Thresholds) == 0 {
		p.Thresholds = DefaultThresholds()
	}
	if p.SpeedKmh <= 0 {
		p.SpeedKmh = DefaultSpeedKmh
	}
	if p.BoardingPenaltyMin < 0 {
		p.BoardingPenaltyMin = DefaultBoardingPenaltyMin
	}
	return p
}

// ComputeAccessibility counts, for every (zone, day type, threshold),
// the stops reachable from the zone centroid within the threshold
// under the straight-line travel-time estimate. When socio data is
// supplied, a zone's full population/jobs/schools counts are
// attributed to every threshold with at least one reachable stop,
// and zero otherwise. That all-or-nothing attribution is the
// documented contract, not a bug.
func ComputeAccessibility(
	feed *Feed,
	zones []*model.Zone,
	socio map[string]model.SocioMetrics,
	params AccessibilityParams,
) []*model.CoverageRecord {

	params = params.withDefaults()

	records := []*model.CoverageRecord{}
	for _, day := range feed.DayTypes {
		if len(day.ServiceIDs) == 0 {
			continue
		}

		// Different day types can serve different stop subsets,
		// so the active-stop filter is recomputed per day type.
		stops := activeStops(feed, stringSet(day.ServiceIDs))
		if len(stops) == 0 {
			continue
		}

		for _, zone := range zones {
			metrics := socio[zone.ID]
			for _, threshold := range params.Thresholds {
				reachable := 0
				for _, stop := range stops {
					distance := geo.HaversineMeters(zone.Lon, zone.Lat, stop.Lon, stop.Lat)
					minutes := geo.TravelMinutes(distance, params.SpeedKmh, params.BoardingPenaltyMin)
					if minutes <= float64(threshold) {
						reachable++
					}
				}

				record := &model.CoverageRecord{
					FeedID:         feed.ID(),
					ZoneID:         zone.ID,
					DayTypeID:      day.ID,
					ThresholdMin:   threshold,
					StopsReachable: reachable,
				}
				if reachable > 0 {
					record.PopReachable = metrics.Population
					record.JobsReachable = metrics.Jobs
					record.SchoolsReachable = metrics.Schools
				}
				records = append(records, record)
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.ZoneID != b.ZoneID {
			return a.ZoneID < b.ZoneID
		}
		if a.DayTypeID != b.DayTypeID {
			return a.DayTypeID < b.DayTypeID
		}
		return a.ThresholdMin < b.ThresholdMin
	})

	return records
}

// activeStops returns the stops served by at least one trip whose
// service belongs to the given set, in stop-dimension order.
func activeStops(feed *Feed, services map[string]bool) []*model.Stop {
	activeTrips := map[string]bool{}
	for _, trip := range feed.Trips {
		if services[trip.ServiceID] {
			activeTrips[trip.ID] = true
		}
	}

	stopIDs := map[string]bool{}
	for _, st := range feed.StopTimes {
		if activeTrips[st.TripID] {
			stopIDs[st.StopID] = true
		}
	}

	stops := []*model.Stop{}
	for _, stop := range feed.Stops {
		if stopIDs[stop.ID] {
			stops = append(stops, stop)
		}
	}
	return stops
}
