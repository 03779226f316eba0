package testutil

// Helpers for building schedule archives in tests.

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// BuildZip assembles a zip archive from filename -> lines.
func BuildZip(
	t testing.TB,
	files map[string][]string,
) []byte {

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for filename, content := range files {
		f, err := w.Create(filename)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(content, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// BuildArchive fills in minimal dummy tables for anything the caller
// leaves out, so tests only spell out the tables they care about.
func BuildArchive(
	t testing.TB,
	files map[string][]string,
) []byte {

	if files == nil {
		files = map[string][]string{}
	}
	if files["agency.txt"] == nil {
		files["agency.txt"] = []string{
			"agency_timezone,agency_name,agency_url",
			"UTC,FooAgency,http://example.com",
		}
	}
	if files["stops.txt"] == nil {
		files["stops.txt"] = []string{
			"stop_id,stop_name,stop_lon,stop_lat",
			"s1,Main St,2.1700,41.3900",
		}
	}
	if files["trips.txt"] == nil {
		files["trips.txt"] = []string{
			"trip_id,route_id,service_id,direction_id",
			"t1,r1,wk,0",
		}
	}
	if files["stop_times.txt"] == nil {
		files["stop_times.txt"] = []string{
			"trip_id,stop_id,stop_sequence,departure_time",
			"t1,s1,1,08:00:00",
		}
	}
	if files["calendar.txt"] == nil && files["calendar_dates.txt"] == nil {
		files["calendar.txt"] = []string{
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"wk,1,1,1,1,1,0,0,20240101,20241231",
		}
	}

	return BuildZip(t, files)
}
