package storage

import (
	"fmt"
	"sort"
	"sync"

	"transitmetrics.dev/analytics/model"
)

// In memory implementations of Registry and SnapshotStore below.
// Used in tests and wherever persistence is not wanted.

type MemoryRegistry struct {
	mu    sync.Mutex
	feeds map[string]*model.FeedSummary
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{feeds: map[string]*model.FeedSummary{}}
}

func (r *MemoryRegistry) UpsertFeed(summary *model.FeedSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *summary
	r.feeds[summary.FeedID] = &copied
	return nil
}

func (r *MemoryRegistry) ListFeeds() ([]*model.FeedSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	feeds := []*model.FeedSummary{}
	for _, summary := range r.feeds {
		copied := *summary
		feeds = append(feeds, &copied)
	}
	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].FeedID < feeds[j].FeedID
	})
	return feeds, nil
}

func (r *MemoryRegistry) GetFeed(feedID string) (*model.FeedSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary, found := r.feeds[feedID]
	if !found {
		return nil, fmt.Errorf("%w: feed %s", model.ErrNotFound, feedID)
	}
	copied := *summary
	return &copied, nil
}

func (r *MemoryRegistry) Close() error {
	return nil
}

type memorySnapshot struct {
	tables   map[string][]model.Row
	dayTypes []*model.DayType
	stops    []*model.Stop
	summary  *model.FeedSummary
}

type MemoryStore struct {
	mu    sync.Mutex
	feeds map[string]*memorySnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{feeds: map[string]*memorySnapshot{}}
}

func (s *MemoryStore) GetWriter(feedID string) (SnapshotWriter, error) {
	return &memoryWriter{
		store:  s,
		feedID: feedID,
		snap:   &memorySnapshot{tables: map[string][]model.Row{}},
	}, nil
}

func (s *MemoryStore) GetReader(feedID string) (SnapshotReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, found := s.feeds[feedID]
	if !found {
		return nil, fmt.Errorf("%w: feed %s", model.ErrNotFound, feedID)
	}
	return &memoryReader{snap: snap}, nil
}

func (s *MemoryStore) ListFeedIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for id := range s.feeds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type memoryWriter struct {
	store  *MemoryStore
	feedID string
	snap   *memorySnapshot
}

func (w *memoryWriter) WriteRawTable(name string, rows []model.Row) error {
	w.snap.tables[name] = rows
	return nil
}

func (w *memoryWriter) WriteDayTypes(dayTypes []*model.DayType) error {
	w.snap.dayTypes = dayTypes
	return nil
}

func (w *memoryWriter) WriteStops(stops []*model.Stop) error {
	w.snap.stops = stops
	return nil
}

func (w *memoryWriter) WriteFeedSummary(summary *model.FeedSummary) error {
	w.snap.summary = summary
	return nil
}

func (w *memoryWriter) Close() error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.feeds[w.feedID] = w.snap
	return nil
}

func (w *memoryWriter) Discard() error {
	return nil
}

type memoryReader struct {
	snap *memorySnapshot
}

func (r *memoryReader) RawTable(name string) ([]model.Row, error) {
	rows, found := r.snap.tables[name]
	if !found {
		return nil, fmt.Errorf("%w: table %s", model.ErrNotFound, name)
	}
	return rows, nil
}

func (r *memoryReader) DayTypes() ([]*model.DayType, error) {
	return r.snap.dayTypes, nil
}

func (r *memoryReader) Stops() ([]*model.Stop, error) {
	return r.snap.stops, nil
}

func (r *memoryReader) FeedSummary() (*model.FeedSummary, error) {
	if r.snap.summary == nil {
		return nil, fmt.Errorf("%w: feed summary", model.ErrNotFound)
	}
	return r.snap.summary, nil
}
