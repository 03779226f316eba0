package parse

import (
	"fmt"
	"strconv"

	"transitmetrics.dev/analytics/model"
)

// Field coercion helpers. Blank cells fall back to the zero value;
// anything non-blank must parse.

func coerceFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value '%s'", s)
	}
	return v, nil
}

func coerceUint(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value '%s'", s)
	}
	return uint32(v), nil
}

// Directions other than 0 and 1 are treated as unknown rather than
// rejected; sloppy feeds leave the column blank or fill it with
// sentinel junk.
func coerceDirection(s string) int8 {
	if s == "0" {
		return 0
	}
	if s == "1" {
		return 1
	}
	return model.DirectionUnknown
}
