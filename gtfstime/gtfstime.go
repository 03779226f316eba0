// Package gtfstime converts transit clock-time strings to and from
// seconds since the service day's midnight. Schedules use times past
// 24:00:00 for after-midnight service, so values are never wrapped
// unless a wall-clock reading is explicitly asked for.
package gtfstime

import (
	"fmt"
	"strconv"
	"strings"
)

const daySeconds = 24 * 60 * 60

// An unparsable clock-time string.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q", e.Value)
}

// Parse converts an "HH:MM:SS" string to seconds since midnight.
// Hours >= 24 are kept as-is, preserving ordering across the day
// boundary.
func Parse(text string) (int, error) {
	if text == "" {
		return 0, &MalformedTimeError{Value: text}
	}
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, &MalformedTimeError{Value: text}
	}
	hms := [3]int{}
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, &MalformedTimeError{Value: text}
		}
		hms[i] = v
	}
	return hms[0]*3600 + hms[1]*60 + hms[2], nil
}

// FormatLabel renders seconds since midnight as "HH:MM", truncating
// to whole minutes. Hours are computed without modulo, so a value
// past midnight renders as "25:30" rather than "01:30".
func FormatLabel(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}

// ClipToClock wraps seconds since midnight onto a 24h clock. Only
// for display of wall-clock values; bucket identifiers must keep the
// unwrapped value.
func ClipToClock(seconds int) int {
	if seconds < 0 {
		seconds = 0
	}
	return seconds % daySeconds
}
