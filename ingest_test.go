package analytics_test

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitmetrics.dev/analytics"
	"transitmetrics.dev/analytics/model"
	"transitmetrics.dev/analytics/storage"
	"transitmetrics.dev/analytics/testutil"
)

func buildIngestor(t *testing.T) (*analytics.Ingestor, *storage.FilesystemStore, storage.Registry) {
	store, err := storage.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	registry := storage.NewMemoryRegistry()
	return analytics.NewIngestor(store, registry), store, registry
}

func TestIngest(t *testing.T) {
	ingestor, store, registry := buildIngestor(t)

	buf := testutil.BuildArchive(t, map[string][]string{
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"wk,1,1,1,1,1,0,0,20240101,20241231",
		},
	})

	feed, err := ingestor.Ingest(buf, "demo.zip")
	require.NoError(t, err)

	wantID := fmt.Sprintf("%x", sha256.Sum256(buf))
	assert.Equal(t, wantID, feed.ID())
	assert.Equal(t, wantID, feed.Summary.VersionHash)
	assert.Equal(t, "FooAgency", feed.Summary.Provider)
	assert.Equal(t, "2024-01-01", feed.Summary.ValidityStart)
	assert.Equal(t, "2024-12-31", feed.Summary.ValidityEnd)
	assert.Equal(t, "demo.zip", feed.Summary.SourcePath)
	assert.False(t, feed.Summary.UpdatedAt.IsZero())

	// The snapshot must be readable back through the same store.
	loaded, err := analytics.LoadFeed(store, feed.ID())
	require.NoError(t, err)
	assert.Equal(t, feed.ID(), loaded.ID())
	require.Len(t, loaded.DayTypes, 1)
	assert.Equal(t, "WEEKDAY", loaded.DayTypes[0].ID)
	require.Len(t, loaded.Stops, 1)
	assert.Equal(t, feed.ID(), loaded.Stops[0].FeedID)

	// And registered in the catalog.
	summary, err := registry.GetFeed(feed.ID())
	require.NoError(t, err)
	assert.Equal(t, "FooAgency", summary.Provider)
}

func TestIngestIdempotent(t *testing.T) {
	ingestor, store, registry := buildIngestor(t)

	buf := testutil.BuildArchive(t, nil)

	first, err := ingestor.Ingest(buf, "demo.zip")
	require.NoError(t, err)
	second, err := ingestor.Ingest(buf, "demo.zip")
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())

	ids, err := store.ListFeedIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID()}, ids)

	summaries, err := registry.ListFeeds()
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestIngestDistinctContentDistinctFeeds(t *testing.T) {
	ingestor, store, _ := buildIngestor(t)

	first, err := ingestor.Ingest(testutil.BuildArchive(t, map[string][]string{
		"stops.txt": {"stop_id,stop_name,stop_lon,stop_lat", "s1,A,2.1,41.3"},
	}), "a.zip")
	require.NoError(t, err)

	second, err := ingestor.Ingest(testutil.BuildArchive(t, map[string][]string{
		"stops.txt": {"stop_id,stop_name,stop_lon,stop_lat", "s1,B,2.1,41.3"},
	}), "b.zip")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())

	ids, err := store.ListFeedIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestIngestCalendarDatesOnly(t *testing.T) {
	ingestor, _, _ := buildIngestor(t)

	buf := testutil.BuildArchive(t, map[string][]string{
		"calendar_dates.txt": {
			"service_id,date,exception_type",
			"special,20240601,1",
			"special,20240615,1",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,direction_id",
			"t1,r1,special,0",
		},
	})

	feed, err := ingestor.Ingest(buf, "special.zip")
	require.NoError(t, err)

	require.Len(t, feed.DayTypes, 1)
	assert.Equal(t, "ALL", feed.DayTypes[0].ID)
	assert.Equal(t, []string{"special"}, feed.DayTypes[0].ServiceIDs)

	// Validity comes from the span of added exception dates.
	assert.Equal(t, "2024-06-01", feed.Summary.ValidityStart)
	assert.Equal(t, "2024-06-15", feed.Summary.ValidityEnd)
}

func TestIngestMissingTablesWritesNothing(t *testing.T) {
	ingestor, store, registry := buildIngestor(t)

	buf := testutil.BuildZip(t, map[string][]string{
		"stops.txt": {"stop_id", "s1"},
	})

	_, err := ingestor.Ingest(buf, "broken.zip")
	require.Error(t, err)

	var missing *model.MissingTableError
	require.True(t, errors.As(err, &missing))

	ids, err := store.ListFeedIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	summaries, err := registry.ListFeeds()
	require.NoError(t, err)
	assert.Empty(t, summaries)

	// No staging leftovers either.
	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Equal(t, "feeds", entry.Name())
	}
}

func TestIngestFileNotFound(t *testing.T) {
	ingestor, _, _ := buildIngestor(t)

	_, err := ingestor.IngestFile(filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestIngestFile(t *testing.T) {
	ingestor, _, _ := buildIngestor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "demo.zip")
	require.NoError(t, os.WriteFile(path, testutil.BuildArchive(t, nil), 0o644))

	feed, err := ingestor.IngestFile(path)
	require.NoError(t, err)
	assert.Contains(t, feed.Summary.SourcePath, "demo.zip")
}
