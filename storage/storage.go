package storage

import (
	"transitmetrics.dev/analytics/model"
)

// Registry is the catalog of ingested feeds, keyed by feed ID.
// Implementations must serialize updates so concurrent upserts for
// different feeds are never lost.
type Registry interface {
	// Writes a feed summary. An existing record with the same
	// feed ID is replaced.
	UpsertFeed(summary *model.FeedSummary) error

	// Returns all records, sorted by feed ID.
	ListFeeds() ([]*model.FeedSummary, error)

	// Returns the record for the given feed ID, or
	// model.ErrNotFound.
	GetFeed(feedID string) (*model.FeedSummary, error)

	Close() error
}

// SnapshotStore persists normalized feed snapshots, one per content
// hash.
type SnapshotStore interface {
	// Gets a writer for the feed with the given ID. Nothing is
	// visible to readers until the writer is closed.
	GetWriter(feedID string) (SnapshotWriter, error)

	// Gets a reader for the feed with the given ID, or
	// model.ErrNotFound when no snapshot exists.
	GetReader(feedID string) (SnapshotReader, error)

	// IDs of all stored snapshots, sorted.
	ListFeedIDs() ([]string, error)
}

// Writes one feed snapshot. Close promotes the snapshot atomically:
// a snapshot either appears complete or not at all. Discard drops a
// partially written snapshot.
type SnapshotWriter interface {
	WriteRawTable(name string, rows []model.Row) error
	WriteDayTypes(dayTypes []*model.DayType) error
	WriteStops(stops []*model.Stop) error
	WriteFeedSummary(summary *model.FeedSummary) error
	Close() error
	Discard() error
}

// Reads one feed snapshot. Snapshots are immutable once written.
type SnapshotReader interface {
	// Rows of a raw table by table name ("trips", "stop_times",
	// ...), or model.ErrNotFound when the source archive had no
	// such table.
	RawTable(name string) ([]model.Row, error)

	DayTypes() ([]*model.DayType, error)
	Stops() ([]*model.Stop, error)
	FeedSummary() (*model.FeedSummary, error)
}
