package parse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"transitmetrics.dev/analytics/model"
)

// Tables that must be present for an archive to be ingestible.
// agency, routes and calendar files are read opportunistically.
var requiredTables = []string{"trips.txt", "stop_times.txt", "stops.txt"}

// A fully parsed schedule archive. Tables holds every tabular file
// verbatim (keyed by table name, without the .txt suffix) for the
// snapshot raw area; the typed slices are coerced views of the
// tables the analytics engines consume.
type Archive struct {
	Tables map[string][]model.Row

	Stops         []*model.Stop
	Trips         []*model.Trip
	StopTimes     []*model.StopTime
	Calendar      []*model.Calendar
	CalendarDates []*model.CalendarDate

	// Provider is the agency_name of the first agency row, if any.
	Provider string
}

// ParseArchive reads a zipped schedule archive from buf, validates
// that the mandatory tables are present, and coerces the tables the
// pipeline depends on into typed records.
func ParseArchive(buf []byte) (*Archive, error) {
	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("%w: unzipping archive: %v", model.ErrFormat, err)
	}

	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	tables := map[string][]model.Row{}
	for _, f := range r.File {
		// There should not be any subdirectories. But, some
		// agencies don't care.
		if f.FileInfo().IsDir() {
			continue
		}
		fName := path.Base(f.Name)
		if !strings.HasSuffix(fName, ".txt") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", model.ErrFormat, f.Name, err)
		}
		maps, err := gocsv.CSVToMaps(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", model.ErrFormat, fName, err)
		}

		rows := make([]model.Row, len(maps))
		for i, m := range maps {
			rows[i] = model.Row(m)
		}
		tables[strings.TrimSuffix(fName, ".txt")] = rows
	}

	missing := []string{}
	for _, name := range requiredTables {
		if _, found := tables[strings.TrimSuffix(name, ".txt")]; !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &model.MissingTableError{Tables: missing}
	}

	archive := &Archive{
		Tables:   tables,
		Provider: Provider(tables["agency"]),
	}

	archive.Stops, err = ParseStops(tables["stops"])
	if err != nil {
		return nil, fmt.Errorf("parsing stops.txt: %w", err)
	}
	archive.Trips, err = ParseTrips(tables["trips"])
	if err != nil {
		return nil, fmt.Errorf("parsing trips.txt: %w", err)
	}
	archive.StopTimes, err = ParseStopTimes(tables["stop_times"])
	if err != nil {
		return nil, fmt.Errorf("parsing stop_times.txt: %w", err)
	}
	archive.Calendar, err = ParseCalendar(tables["calendar"])
	if err != nil {
		return nil, fmt.Errorf("parsing calendar.txt: %w", err)
	}
	archive.CalendarDates, err = ParseCalendarDates(tables["calendar_dates"])
	if err != nil {
		return nil, fmt.Errorf("parsing calendar_dates.txt: %w", err)
	}

	return archive, nil
}
