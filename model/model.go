package model

import (
	"encoding/json"
	"time"
)

// Holds all external facing types and constants.

// A single row of a tabular schedule file, with every source column
// preserved. Rows are what the snapshot raw area stores verbatim;
// typed records below are coerced from them at the ingestion
// boundary.
type Row map[string]string

// DirectionUnknown marks trips whose direction_id is absent or
// unparsable. Unknown directions sort after concrete ones in all
// derived records.
const DirectionUnknown int8 = -1

type Stop struct {
	ID     string  `json:"stop_id"`
	Name   string  `json:"name"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
	FeedID string  `json:"feed_id"`
}

type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	DirectionID int8
}

type StopTime struct {
	TripID       string
	StopID       string
	StopSequence uint32

	// Departure is seconds since the service day's midnight. Trips
	// running past midnight keep values >= 86400 so that ordering
	// across the day boundary is preserved.
	Departure int
}

type Calendar struct {
	ServiceID string
	StartDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
	Weekday   int8   // bitfield, 1<<time.Weekday
}

// Runs reports whether the service operates on the given weekday.
func (c *Calendar) Runs(day time.Weekday) bool {
	return c.Weekday&(1<<day) != 0
}

type ExceptionType int8

const (
	ExceptionAdded   ExceptionType = 1
	ExceptionRemoved ExceptionType = 2
)

type CalendarDate struct {
	ServiceID     string
	Date          string // YYYYMMDD
	ExceptionType ExceptionType
}

// A derived grouping of service IDs sharing an operating pattern.
type DayType struct {
	ID         string   `json:"day_type_id"`
	Label      string   `json:"label"`
	ServiceIDs []string `json:"service_ids"`
}

// Summary metadata for one ingested feed, as stored in the registry
// and in the snapshot's feed dimension. Validity dates are ISO
// (2006-01-02) or empty when unknown.
type FeedSummary struct {
	FeedID        string
	Provider      string
	ValidityStart string
	ValidityEnd   string
	VersionHash   string
	SourcePath    string
	UpdatedAt     time.Time
}

// Empty provider and validity dates marshal as null, matching the
// registry record shape consumers expect.
func (f *FeedSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FeedID        string     `json:"feed_id"`
		Provider      *string    `json:"provider"`
		ValidityStart *string    `json:"validity_start"`
		ValidityEnd   *string    `json:"validity_end"`
		VersionHash   string     `json:"version_hash"`
		SourcePath    string     `json:"source_path,omitempty"`
		UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	}{
		FeedID:        f.FeedID,
		Provider:      nullable(f.Provider),
		ValidityStart: nullable(f.ValidityStart),
		ValidityEnd:   nullable(f.ValidityEnd),
		VersionHash:   f.VersionHash,
		SourcePath:    f.SourcePath,
		UpdatedAt:     nullableTime(f.UpdatedAt),
	})
}

func (f *FeedSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		FeedID        string     `json:"feed_id"`
		Provider      *string    `json:"provider"`
		ValidityStart *string    `json:"validity_start"`
		ValidityEnd   *string    `json:"validity_end"`
		VersionHash   string     `json:"version_hash"`
		SourcePath    string     `json:"source_path"`
		UpdatedAt     *time.Time `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.FeedID = raw.FeedID
	f.Provider = deref(raw.Provider)
	f.ValidityStart = deref(raw.ValidityStart)
	f.ValidityEnd = deref(raw.ValidityEnd)
	f.VersionHash = raw.VersionHash
	f.SourcePath = raw.SourcePath
	if raw.UpdatedAt != nil {
		f.UpdatedAt = *raw.UpdatedAt
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Headway percentiles per (route, direction, time bucket). The
// percentile fields are nil when the bucket holds fewer than two
// departures.
type HeadwayBin struct {
	FeedID        string   `json:"feed_id"`
	DayTypeID     string   `json:"day_type_id"`
	RouteID       string   `json:"route_id"`
	DirectionID   *int     `json:"direction_id"`
	TimebinStart  int      `json:"timebin_start"`
	TimebinLabel  string   `json:"timebin_label"`
	Departures    int      `json:"departures"`
	HeadwayP50Min *float64 `json:"headway_p50_min"`
	HeadwayP90Min *float64 `json:"headway_p90_min"`
}

// Whole-day first/last departure KPIs per (route, direction).
type LineServiceKPI struct {
	FeedID         string `json:"feed_id"`
	DayTypeID      string `json:"day_type_id"`
	RouteID        string `json:"route_id"`
	DirectionID    *int   `json:"direction_id"`
	FirstDeparture string `json:"first_departure"`
	LastDeparture  string `json:"last_departure"`
	Departures     int    `json:"departures"`
}

// Reachability counts for one (zone, day-type, threshold). Socio
// counts are attributed in full when any stop is reachable, zero
// otherwise.
type CoverageRecord struct {
	FeedID           string `json:"feed_id"`
	ZoneID           string `json:"zone_id"`
	DayTypeID        string `json:"day_type_id"`
	ThresholdMin     int    `json:"threshold_min"`
	StopsReachable   int    `json:"stops_reachable"`
	PopReachable     int    `json:"pop_reachable"`
	JobsReachable    int    `json:"jobs_reachable"`
	SchoolsReachable int    `json:"schools_reachable"`
}

// A demand zone, reduced to the centroid of its outer ring.
type Zone struct {
	ID  string  `json:"zone_id"`
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type SocioMetrics struct {
	Population int `json:"population"`
	Jobs       int `json:"jobs"`
	Schools    int `json:"schools"`
}
