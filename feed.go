// Package analytics derives service-frequency and accessibility
// metrics from normalized, content-addressed snapshots of static
// transit schedules.
package analytics

import (
	"fmt"

	"transitmetrics.dev/analytics/model"
	"transitmetrics.dev/analytics/parse"
	"transitmetrics.dev/analytics/storage"
)

// Default analytics parameters, used when a caller passes zero
// values.
const (
	DefaultTimebinMinutes     = 15
	DefaultSpeedKmh           = 25.0
	DefaultBoardingPenaltyMin = 5.0
)

func DefaultThresholds() []int {
	return []int{15, 30, 45}
}

// Feed is one normalized schedule snapshot loaded into memory. It
// is a read-only input to the analytics engines; they only produce
// new derived records and never mutate these tables.
type Feed struct {
	Summary   *model.FeedSummary
	Stops     []*model.Stop
	Trips     []*model.Trip
	StopTimes []*model.StopTime
	DayTypes  []*model.DayType
}

func (f *Feed) ID() string {
	return f.Summary.FeedID
}

// LoadFeed reads a snapshot back from storage, re-coercing the raw
// trip and stop-time tables through the same path the ingestor used.
func LoadFeed(store storage.SnapshotStore, feedID string) (*Feed, error) {
	reader, err := store.GetReader(feedID)
	if err != nil {
		return nil, err
	}

	summary, err := reader.FeedSummary()
	if err != nil {
		return nil, fmt.Errorf("reading feed summary: %w", err)
	}
	stops, err := reader.Stops()
	if err != nil {
		return nil, fmt.Errorf("reading stop dimension: %w", err)
	}
	dayTypes, err := reader.DayTypes()
	if err != nil {
		return nil, fmt.Errorf("reading day-type index: %w", err)
	}

	tripRows, err := reader.RawTable("trips")
	if err != nil {
		return nil, fmt.Errorf("reading trips: %w", err)
	}
	trips, err := parse.ParseTrips(tripRows)
	if err != nil {
		return nil, fmt.Errorf("parsing trips: %w", err)
	}

	stopTimeRows, err := reader.RawTable("stop_times")
	if err != nil {
		return nil, fmt.Errorf("reading stop_times: %w", err)
	}
	stopTimes, err := parse.ParseStopTimes(stopTimeRows)
	if err != nil {
		return nil, fmt.Errorf("parsing stop_times: %w", err)
	}

	return &Feed{
		Summary:   summary,
		Stops:     stops,
		Trips:     trips,
		StopTimes: stopTimes,
		DayTypes:  dayTypes,
	}, nil
}
