package analytics

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"transitmetrics.dev/analytics/model"
	"transitmetrics.dev/analytics/parse"
	"transitmetrics.dev/analytics/storage"
)

// Ingestor normalizes schedule archives into content-addressed
// snapshots and records them in the registry.
type Ingestor struct {
	snapshots storage.SnapshotStore
	registry  storage.Registry
}

func NewIngestor(snapshots storage.SnapshotStore, registry storage.Registry) *Ingestor {
	return &Ingestor{snapshots: snapshots, registry: registry}
}

// IngestFile ingests the archive at path.
func (ing *Ingestor) IngestFile(path string) (*Feed, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: archive %s", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return ing.Ingest(buf, abs)
}

// Ingest normalizes a zipped schedule archive. The feed ID is the
// SHA-256 of the archive bytes, so re-ingesting identical content is
// idempotent: it produces the same ID and replaces the same
// snapshot directory. All validation happens before anything is
// written; a failed ingestion leaves no trace.
func (ing *Ingestor) Ingest(buf []byte, sourcePath string) (*Feed, error) {
	feedID := fmt.Sprintf("%x", sha256.Sum256(buf))

	archive, err := parse.ParseArchive(buf)
	if err != nil {
		return nil, err
	}

	dayTypes := DeriveDayTypes(archive.Calendar, archive.CalendarDates, archive.Trips)
	validityStart, validityEnd := validityWindow(archive.Calendar, archive.CalendarDates)

	for _, stop := range archive.Stops {
		stop.FeedID = feedID
	}

	summary := &model.FeedSummary{
		FeedID:        feedID,
		Provider:      archive.Provider,
		ValidityStart: validityStart,
		ValidityEnd:   validityEnd,
		VersionHash:   feedID,
		SourcePath:    sourcePath,
		UpdatedAt:     time.Now().UTC(),
	}

	writer, err := ing.snapshots.GetWriter(feedID)
	if err != nil {
		return nil, fmt.Errorf("getting snapshot writer: %w", err)
	}
	if err := writeSnapshot(writer, archive, dayTypes, summary); err != nil {
		writer.Discard()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		writer.Discard()
		return nil, fmt.Errorf("closing snapshot: %w", err)
	}

	if err := ing.registry.UpsertFeed(summary); err != nil {
		return nil, fmt.Errorf("updating registry: %w", err)
	}

	log.Info().
		Str("feed_id", feedID).
		Str("provider", archive.Provider).
		Int("stops", len(archive.Stops)).
		Int("trips", len(archive.Trips)).
		Int("day_types", len(dayTypes)).
		Msg("Ingested feed")

	return &Feed{
		Summary:   summary,
		Stops:     archive.Stops,
		Trips:     archive.Trips,
		StopTimes: archive.StopTimes,
		DayTypes:  dayTypes,
	}, nil
}

func writeSnapshot(
	writer storage.SnapshotWriter,
	archive *parse.Archive,
	dayTypes []*model.DayType,
	summary *model.FeedSummary,
) error {

	names := make([]string, 0, len(archive.Tables))
	for name := range archive.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writer.WriteRawTable(name, archive.Tables[name]); err != nil {
			return fmt.Errorf("writing raw table %s: %w", name, err)
		}
	}

	if err := writer.WriteDayTypes(dayTypes); err != nil {
		return fmt.Errorf("writing day-type index: %w", err)
	}
	if err := writer.WriteStops(archive.Stops); err != nil {
		return fmt.Errorf("writing stop dimension: %w", err)
	}
	if err := writer.WriteFeedSummary(summary); err != nil {
		return fmt.Errorf("writing feed dimension: %w", err)
	}
	return nil
}

// The feed validity window comes from calendar start/end dates when
// calendar rules exist, and from the span of "added" exception
// dates otherwise. Unknown when neither is available.
func validityWindow(calendar []*model.Calendar, calendarDates []*model.CalendarDate) (string, string) {
	var minDate, maxDate string

	if len(calendar) > 0 {
		for _, c := range calendar {
			if minDate == "" || c.StartDate < minDate {
				minDate = c.StartDate
			}
			if maxDate == "" || c.EndDate > maxDate {
				maxDate = c.EndDate
			}
		}
	} else {
		for _, cd := range calendarDates {
			if cd.ExceptionType != model.ExceptionAdded {
				continue
			}
			if minDate == "" || cd.Date < minDate {
				minDate = cd.Date
			}
			if maxDate == "" || cd.Date > maxDate {
				maxDate = cd.Date
			}
		}
	}

	return isoDate(minDate), isoDate(maxDate)
}

func isoDate(yyyymmdd string) string {
	t, err := time.ParseInLocation("20060102", yyyymmdd, time.UTC)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
