// Package ingest reads raw schedule rows from CSV or XML sources and maps
// them onto the canonical record shape.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptySource is returned when a source holds no data rows.
var ErrEmptySource = errors.New("source contains no rows")

// RawRow is one source row keyed by its original column or tag name.
type RawRow struct {
	Index  int // 1-based position in the source
	Fields map[string]string
}

// Format identifies the source file shape.
type Format string

const (
	FormatCSV Format = "csv"
	FormatXML Format = "xml"
)

// ParseFormat accepts "csv" or "xml" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXML:
		return FormatXML, nil
	}
	return "", fmt.Errorf("unknown format %q (use csv or xml)", s)
}

// Read parses r according to format.
func Read(r io.Reader, format Format) ([]RawRow, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXML:
		return ReadXML(r)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
