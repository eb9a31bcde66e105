package corrections

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ginjaninja78/edithor/internal/validation"
)

// csvRow is the spreadsheet-friendly form of a correction.
type csvRow struct {
	Old string `csv:"ancien_ean"`
	New string `csv:"nouvel_ean"`
}

// ExportCSV writes every correction, sorted by raw identifier, as CSV with a
// header row.
func (t *Table) ExportCSV(w io.Writer) error {
	entries := t.Entries()
	rows := make([]*csvRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &csvRow{Old: e.Old, New: e.New})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write corrections CSV: %w", err)
	}
	return nil
}

// ImportCSV merges the corrections read from r into the table.
//
// Every row is validated with the strict rules before anything is applied,
// so a single bad row leaves the table untouched. Later rows win over earlier
// ones and over existing entries. It returns the number of rows applied.
func (t *Table) ImportCSV(r io.Reader) (int, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("failed to read corrections CSV: %w", err)
	}

	for i, row := range rows {
		if err := validation.ValidateCorrection(row.Old, row.New, true); err != nil {
			// +2: header row and 1-based numbering
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range rows {
		t.entries[strings.TrimSpace(row.Old)] = strings.TrimSpace(row.New)
	}
	return len(rows), nil
}
