package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a header row followed by data rows. Blank lines are skipped
// and ragged rows are tolerated; missing trailing cells read as empty.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []RawRow
	for i := 1; ; i++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", i, err)
		}
		fields := make(map[string]string, len(header))
		for j, col := range header {
			col = strings.TrimSpace(col)
			if col == "" || j >= len(rec) {
				continue
			}
			fields[col] = rec[j]
		}
		rows = append(rows, RawRow{Index: i, Fields: fields})
	}

	if len(rows) == 0 {
		return nil, ErrEmptySource
	}
	return rows, nil
}
