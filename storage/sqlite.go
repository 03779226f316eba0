package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"transitmetrics.dev/analytics/model"
)

// SQLite-backed Registry. The default on-disk catalog; pass
// ":memory:" for an ephemeral one. Upserts run as single statements,
// so concurrent writers for different feeds never lose records.
type SQLiteRegistry struct {
	db *sql.DB
}

func NewSQLiteRegistry(path string) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS feed (
    feed_id TEXT NOT NULL,
    provider TEXT NOT NULL,
    validity_start TEXT NOT NULL,
    validity_end TEXT NOT NULL,
    version_hash TEXT NOT NULL,
    source_path TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
PRIMARY KEY (feed_id)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating feed table: %w", err)
	}

	return &SQLiteRegistry{db: db}, nil
}

func (r *SQLiteRegistry) UpsertFeed(summary *model.FeedSummary) error {
	_, err := r.db.Exec(`
INSERT INTO feed (feed_id, provider, validity_start, validity_end, version_hash, source_path, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (feed_id) DO UPDATE SET
    provider = excluded.provider,
    validity_start = excluded.validity_start,
    validity_end = excluded.validity_end,
    version_hash = excluded.version_hash,
    source_path = excluded.source_path,
    updated_at = excluded.updated_at`,
		summary.FeedID,
		summary.Provider,
		summary.ValidityStart,
		summary.ValidityEnd,
		summary.VersionHash,
		summary.SourcePath,
		summary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting feed %s: %w", summary.FeedID, err)
	}
	return nil
}

func (r *SQLiteRegistry) ListFeeds() ([]*model.FeedSummary, error) {
	rows, err := r.db.Query(`
SELECT feed_id, provider, validity_start, validity_end, version_hash, source_path, updated_at
FROM feed
ORDER BY feed_id`)
	if err != nil {
		return nil, fmt.Errorf("listing feeds: %w", err)
	}
	defer rows.Close()

	feeds := []*model.FeedSummary{}
	for rows.Next() {
		summary := &model.FeedSummary{}
		err = rows.Scan(
			&summary.FeedID,
			&summary.Provider,
			&summary.ValidityStart,
			&summary.ValidityEnd,
			&summary.VersionHash,
			&summary.SourcePath,
			&summary.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning feed: %w", err)
		}
		feeds = append(feeds, summary)
	}
	return feeds, rows.Err()
}

func (r *SQLiteRegistry) GetFeed(feedID string) (*model.FeedSummary, error) {
	summary := &model.FeedSummary{}
	err := r.db.QueryRow(`
SELECT feed_id, provider, validity_start, validity_end, version_hash, source_path, updated_at
FROM feed
WHERE feed_id = ?`, feedID).Scan(
		&summary.FeedID,
		&summary.Provider,
		&summary.ValidityStart,
		&summary.ValidityEnd,
		&summary.VersionHash,
		&summary.SourcePath,
		&summary.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: feed %s", model.ErrNotFound, feedID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting feed %s: %w", feedID, err)
	}
	return summary, nil
}

func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
