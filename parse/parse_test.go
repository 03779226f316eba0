package parse_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitmetrics.dev/analytics/gtfstime"
	"transitmetrics.dev/analytics/model"
	"transitmetrics.dev/analytics/parse"
	"transitmetrics.dev/analytics/testutil"
)

func TestParseArchive(t *testing.T) {
	buf := testutil.BuildZip(t, map[string][]string{
		"agency.txt": {
			"agency_timezone,agency_name,agency_url",
			"Europe/Madrid,Metro Demo,http://example.com",
		},
		"stops.txt": {
			"stop_id,stop_name,stop_lon,stop_lat",
			"s1,Central,2.1700,41.3900",
			"s2,North,2.1800,41.4000",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,direction_id",
			"t1,r1,wk,0",
			"t2,r1,wk,1",
			"t3,r1,wk,",
		},
		"stop_times.txt": {
			"trip_id,stop_id,stop_sequence,departure_time",
			"t1,s1,1,08:00:00",
			"t1,s2,2,08:10:00",
			"t2,s2,1,25:15:00",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"wk,1,1,1,1,1,0,0,20240101,20241231",
		},
	})

	archive, err := parse.ParseArchive(buf)
	require.NoError(t, err)

	assert.Equal(t, "Metro Demo", archive.Provider)

	require.Len(t, archive.Stops, 2)
	assert.Equal(t, "s1", archive.Stops[0].ID)
	assert.Equal(t, "Central", archive.Stops[0].Name)
	assert.Equal(t, 2.17, archive.Stops[0].Lon)
	assert.Equal(t, 41.39, archive.Stops[0].Lat)

	require.Len(t, archive.Trips, 3)
	assert.Equal(t, int8(0), archive.Trips[0].DirectionID)
	assert.Equal(t, int8(1), archive.Trips[1].DirectionID)
	assert.Equal(t, model.DirectionUnknown, archive.Trips[2].DirectionID)

	require.Len(t, archive.StopTimes, 3)
	assert.Equal(t, 28800, archive.StopTimes[0].Departure)
	assert.Equal(t, 90900, archive.StopTimes[2].Departure)

	require.Len(t, archive.Calendar, 1)
	assert.True(t, archive.Calendar[0].Runs(time.Monday))
	assert.False(t, archive.Calendar[0].Runs(time.Saturday))
}

func TestParseArchivePreservesRawRows(t *testing.T) {
	// Columns the typed records never look at must survive verbatim
	// in the raw tables.
	buf := testutil.BuildArchive(t, map[string][]string{
		"stops.txt": {
			"stop_id,stop_name,stop_lon,stop_lat,wheelchair_boarding,zone_id",
			"s1,Main St,2.1700,41.3900,1,Z9",
		},
	})

	archive, err := parse.ParseArchive(buf)
	require.NoError(t, err)

	rows := archive.Tables["stops"]
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["wheelchair_boarding"])
	assert.Equal(t, "Z9", rows[0]["zone_id"])
}

func TestParseArchiveMissingTables(t *testing.T) {
	buf := testutil.BuildZip(t, map[string][]string{
		"stops.txt": {"stop_id", "s1"},
	})

	_, err := parse.ParseArchive(buf)
	require.Error(t, err)

	var missing *model.MissingTableError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"trips.txt", "stop_times.txt"}, missing.Tables)
}

func TestParseArchiveBadZip(t *testing.T) {
	_, err := parse.ParseArchive([]byte("not a zip archive"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrFormat))
}

func TestParseArchiveMalformedTime(t *testing.T) {
	buf := testutil.BuildArchive(t, map[string][]string{
		"stop_times.txt": {
			"trip_id,stop_id,stop_sequence,departure_time",
			"t1,s1,1,whenever",
		},
	})

	_, err := parse.ParseArchive(buf)
	require.Error(t, err)

	var malformed *gtfstime.MalformedTimeError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "whenever", malformed.Value)
}

func TestParseCalendar(t *testing.T) {
	for _, tc := range []struct {
		name string
		rows []model.Row
		err  string
	}{
		{
			"AllDays",
			[]model.Row{{
				"service_id": "daily",
				"monday":     "1", "tuesday": "1", "wednesday": "1",
				"thursday": "1", "friday": "1", "saturday": "1", "sunday": "1",
				"start_date": "20240101", "end_date": "20241231",
			}},
			"",
		},
		{
			"BlankFlagsMeanNotRunning",
			[]model.Row{{
				"service_id": "sat",
				"saturday":   "1",
				"start_date": "20240101", "end_date": "20241231",
			}},
			"",
		},
		{
			"EmptyServiceID",
			[]model.Row{{
				"service_id": "",
				"start_date": "20240101", "end_date": "20241231",
			}},
			"empty service_id",
		},
		{
			"RepeatedServiceID",
			[]model.Row{
				{"service_id": "wk", "start_date": "20240101", "end_date": "20241231"},
				{"service_id": "wk", "start_date": "20240101", "end_date": "20241231"},
			},
			"repeated service_id 'wk'",
		},
		{
			"BadWeekdayFlag",
			[]model.Row{{
				"service_id": "wk",
				"monday":     "yes",
				"start_date": "20240101", "end_date": "20241231",
			}},
			"invalid monday value 'yes'",
		},
		{
			"BadDate",
			[]model.Row{{
				"service_id": "wk",
				"start_date": "2024-01-01", "end_date": "20241231",
			}},
			"parsing start_date",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			calendars, err := parse.ParseCalendar(tc.rows)
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, calendars, len(tc.rows))
		})
	}
}

func TestParseCalendarDates(t *testing.T) {
	dates, err := parse.ParseCalendarDates([]model.Row{
		{"service_id": "special", "date": "20240601", "exception_type": "1"},
		{"service_id": "special", "date": "20240602", "exception_type": "2"},
		{"service_id": "extra", "date": "20240601", "exception_type": ""},
	})
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, model.ExceptionAdded, dates[0].ExceptionType)
	assert.Equal(t, model.ExceptionRemoved, dates[1].ExceptionType)
	assert.Equal(t, model.ExceptionAdded, dates[2].ExceptionType)

	_, err = parse.ParseCalendarDates([]model.Row{
		{"service_id": "special", "date": "20240601", "exception_type": "1"},
		{"service_id": "special", "date": "20240601", "exception_type": "2"},
	})
	require.Error(t, err)
}

func TestParseStopTimesRowContext(t *testing.T) {
	_, err := parse.ParseStopTimes([]model.Row{
		{"trip_id": "t1", "stop_id": "s1", "stop_sequence": "1", "departure_time": "08:00:00"},
		{"trip_id": "t1", "stop_id": "s2", "stop_sequence": "x", "departure_time": "08:10:00"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
