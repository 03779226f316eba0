package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"transitmetrics.dev/analytics/model"
)

// FilesystemStore keeps snapshots under <root>/feeds/<feed id>, with
// a raw/ area holding every source table verbatim and a derived/
// area holding the day-type index, the stop dimension and the feed
// dimension.
//
// Writers stage into a temp directory on the same volume and
// promote with a rename, so a crashed ingestion never leaves a
// half-written snapshot that could be mistaken for a complete one.
type FilesystemStore struct {
	root string
}

func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "feeds"), 0o755); err != nil {
		return nil, fmt.Errorf("creating feeds directory: %w", err)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) Root() string {
	return s.root
}

func (s *FilesystemStore) feedDir(feedID string) string {
	return filepath.Join(s.root, "feeds", feedID)
}

func (s *FilesystemStore) GetWriter(feedID string) (SnapshotWriter, error) {
	tmp, err := os.MkdirTemp(s.root, ".ingest-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	for _, sub := range []string{"raw", "derived"} {
		if err := os.Mkdir(filepath.Join(tmp, sub), 0o755); err != nil {
			os.RemoveAll(tmp)
			return nil, fmt.Errorf("creating staging directory: %w", err)
		}
	}
	return &filesystemWriter{tmp: tmp, final: s.feedDir(feedID)}, nil
}

func (s *FilesystemStore) GetReader(feedID string) (SnapshotReader, error) {
	dir := s.feedDir(feedID)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: feed %s", model.ErrNotFound, feedID)
	}
	return &filesystemReader{dir: dir}, nil
}

func (s *FilesystemStore) ListFeedIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "feeds"))
	if err != nil {
		return nil, fmt.Errorf("listing feeds: %w", err)
	}
	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ArtifactPath resolves a relative artifact path under the store
// root for export, refusing anything that escapes it.
func (s *FilesystemStore) ArtifactPath(artifact string) (string, error) {
	clean := filepath.Clean("/" + artifact)
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: artifact %s", model.ErrNotFound, artifact)
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: artifact %s", model.ErrNotFound, artifact)
	}
	return full, nil
}

type filesystemWriter struct {
	tmp   string
	final string
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (w *filesystemWriter) WriteRawTable(name string, rows []model.Row) error {
	if rows == nil {
		rows = []model.Row{}
	}
	return writeJSON(filepath.Join(w.tmp, "raw", name+".json"), rows)
}

func (w *filesystemWriter) WriteDayTypes(dayTypes []*model.DayType) error {
	if dayTypes == nil {
		dayTypes = []*model.DayType{}
	}
	return writeJSON(filepath.Join(w.tmp, "derived", "dim_calendar.json"), dayTypes)
}

func (w *filesystemWriter) WriteStops(stops []*model.Stop) error {
	if stops == nil {
		stops = []*model.Stop{}
	}
	return writeJSON(filepath.Join(w.tmp, "derived", "dim_stop.json"), stops)
}

func (w *filesystemWriter) WriteFeedSummary(summary *model.FeedSummary) error {
	return writeJSON(filepath.Join(w.tmp, "derived", "dim_feed.json"), summary)
}

// Close promotes the staged snapshot. Re-ingesting identical bytes
// lands on the same directory; replacing it is safe because the
// content is identical.
func (w *filesystemWriter) Close() error {
	if err := os.RemoveAll(w.final); err != nil {
		return fmt.Errorf("clearing previous snapshot: %w", err)
	}
	if err := os.Rename(w.tmp, w.final); err != nil {
		return fmt.Errorf("promoting snapshot: %w", err)
	}
	return nil
}

func (w *filesystemWriter) Discard() error {
	return os.RemoveAll(w.tmp)
}

type filesystemReader struct {
	dir string
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", model.ErrNotFound, filepath.Base(path))
		}
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: unmarshaling %s: %v", model.ErrFormat, filepath.Base(path), err)
	}
	return nil
}

func (r *filesystemReader) RawTable(name string) ([]model.Row, error) {
	rows := []model.Row{}
	if err := readJSON(filepath.Join(r.dir, "raw", name+".json"), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *filesystemReader) DayTypes() ([]*model.DayType, error) {
	dayTypes := []*model.DayType{}
	if err := readJSON(filepath.Join(r.dir, "derived", "dim_calendar.json"), &dayTypes); err != nil {
		return nil, err
	}
	return dayTypes, nil
}

func (r *filesystemReader) Stops() ([]*model.Stop, error) {
	stops := []*model.Stop{}
	if err := readJSON(filepath.Join(r.dir, "derived", "dim_stop.json"), &stops); err != nil {
		return nil, err
	}
	return stops, nil
}

func (r *filesystemReader) FeedSummary() (*model.FeedSummary, error) {
	summary := &model.FeedSummary{}
	if err := readJSON(filepath.Join(r.dir, "derived", "dim_feed.json"), summary); err != nil {
		return nil, err
	}
	return summary, nil
}
