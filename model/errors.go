package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound covers absent archives, unknown feed IDs and missing
// exported artifacts.
var ErrNotFound = errors.New("not found")

// ErrFormat covers corrupt archives and unreadable geometry or
// socio-economic files.
var ErrFormat = errors.New("invalid format")

// A mandatory schedule table is absent from the archive.
type MissingTableError struct {
	Tables []string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing required tables: %s", strings.Join(e.Tables, ", "))
}
