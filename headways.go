package analytics

import (
	"math"
	"sort"

	"transitmetrics.dev/analytics/gtfstime"
	"transitmetrics.dev/analytics/model"
)

// RepresentativeDepartures maps each trip to its departure at the
// lowest stop sequence. Ties on stop_sequence resolve to whichever
// row came first in the source table.
func RepresentativeDepartures(stopTimes []*model.StopTime) map[string]int {
	ordered := append([]*model.StopTime(nil), stopTimes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TripID != ordered[j].TripID {
			return ordered[i].TripID < ordered[j].TripID
		}
		return ordered[i].StopSequence < ordered[j].StopSequence
	})

	departures := map[string]int{}
	for _, st := range ordered {
		if _, found := departures[st.TripID]; found {
			continue
		}
		departures[st.TripID] = st.Departure
	}
	return departures
}

// ComputeHeadways buckets each day type's trips by first-departure
// time into fixed-width bins per (route, direction) and reports
// interpolated headway percentiles per bin. Bins holding fewer than
// two departures get nil percentiles.
func ComputeHeadways(feed *Feed, bucketMinutes int) []*model.HeadwayBin {
	if bucketMinutes <= 0 {
		bucketMinutes = DefaultTimebinMinutes
	}
	bucketSeconds := bucketMinutes * 60

	departures := RepresentativeDepartures(feed.StopTimes)

	type binKey struct {
		routeID   string
		direction int8
		bucket    int
	}

	bins := []*model.HeadwayBin{}
	for _, day := range feed.DayTypes {
		if len(day.ServiceIDs) == 0 {
			continue
		}
		members := stringSet(day.ServiceIDs)

		groups := map[binKey][]int{}
		for _, trip := range feed.Trips {
			if !members[trip.ServiceID] {
				continue
			}
			departure, found := departures[trip.ID]
			if !found {
				continue
			}
			key := binKey{
				routeID:   trip.RouteID,
				direction: trip.DirectionID,
				bucket:    departure / bucketSeconds * bucketSeconds,
			}
			groups[key] = append(groups[key], departure)
		}

		for key, values := range groups {
			sort.Ints(values)

			var p50, p90 *float64
			if len(values) > 1 {
				diffs := make([]float64, 0, len(values)-1)
				for i := 1; i < len(values); i++ {
					diffs = append(diffs, float64(values[i]-values[i-1]))
				}
				p50 = ptr(percentile(diffs, 0.5) / 60)
				p90 = ptr(percentile(diffs, 0.9) / 60)
			}

			bins = append(bins, &model.HeadwayBin{
				FeedID:        feed.ID(),
				DayTypeID:     day.ID,
				RouteID:       key.routeID,
				DirectionID:   directionValue(key.direction),
				TimebinStart:  key.bucket,
				TimebinLabel:  gtfstime.FormatLabel(key.bucket),
				Departures:    len(values),
				HeadwayP50Min: p50,
				HeadwayP90Min: p90,
			})
		}
	}

	sort.Slice(bins, func(i, j int) bool {
		a, b := bins[i], bins[j]
		if a.DayTypeID != b.DayTypeID {
			return a.DayTypeID < b.DayTypeID
		}
		if a.RouteID != b.RouteID {
			return a.RouteID < b.RouteID
		}
		if r, s := directionRank(a.DirectionID), directionRank(b.DirectionID); r != s {
			return r < s
		}
		return a.TimebinStart < b.TimebinStart
	})

	return bins
}

// ComputeServiceKPIs reports whole-day first/last departures and
// total departure counts per (day type, route, direction).
func ComputeServiceKPIs(feed *Feed) []*model.LineServiceKPI {
	departures := RepresentativeDepartures(feed.StopTimes)

	type lineKey struct {
		routeID   string
		direction int8
	}

	kpis := []*model.LineServiceKPI{}
	for _, day := range feed.DayTypes {
		if len(day.ServiceIDs) == 0 {
			continue
		}
		members := stringSet(day.ServiceIDs)

		groups := map[lineKey][]int{}
		for _, trip := range feed.Trips {
			if !members[trip.ServiceID] {
				continue
			}
			departure, found := departures[trip.ID]
			if !found {
				continue
			}
			key := lineKey{routeID: trip.RouteID, direction: trip.DirectionID}
			groups[key] = append(groups[key], departure)
		}

		for key, values := range groups {
			sort.Ints(values)
			kpis = append(kpis, &model.LineServiceKPI{
				FeedID:         feed.ID(),
				DayTypeID:      day.ID,
				RouteID:        key.routeID,
				DirectionID:    directionValue(key.direction),
				FirstDeparture: gtfstime.FormatLabel(values[0]),
				LastDeparture:  gtfstime.FormatLabel(values[len(values)-1]),
				Departures:     len(values),
			})
		}
	}

	sort.Slice(kpis, func(i, j int) bool {
		a, b := kpis[i], kpis[j]
		if a.DayTypeID != b.DayTypeID {
			return a.DayTypeID < b.DayTypeID
		}
		if a.RouteID != b.RouteID {
			return a.RouteID < b.RouteID
		}
		return directionRank(a.DirectionID) < directionRank(b.DirectionID)
	})

	return kpis
}

// percentile computes the interpolated percentile of samples: at
// position (n-1)*p, linearly interpolating between the neighboring
// ranks when the position is fractional. Deterministic for a given
// sample set.
func percentile(samples []float64, p float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	position := float64(len(sorted)-1) * p
	lower := int(math.Floor(position))
	upper := int(math.Ceil(position))
	if lower == upper {
		return sorted[lower]
	}
	weight := position - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func directionValue(direction int8) *int {
	if direction == model.DirectionUnknown {
		return nil
	}
	v := int(direction)
	return &v
}

// Unknown directions sort after all concrete ones.
func directionRank(direction *int) int {
	if direction == nil {
		return math.MaxInt
	}
	return *direction
}

func ptr(v float64) *float64 {
	return &v
}
