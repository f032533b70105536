// Package table loads the four independently-sourced input tables: the
// instrument export, the dilution-factor table, the calibration-target table,
// and the optional reference-value table. Loaders fail loudly when a required
// column is absent; see each loader for its expected schema.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/geochemlab/icpqc/internal/xlsx"
)

// Canonical metadata column names after instrument-export normalization.
const (
	ColAcqTime  = "acq_time"
	ColSampleID = "sample_id"
)

// Table is a loaded tabular file: a header and raw string rows. Cells are
// untyped; numeric interpretation happens at the point of use.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the 0-based index of a named column, or -1. Matching is
// case-insensitive and ignores surrounding whitespace.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col), or "" when the row is short.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// ReadRows reads a delimited-text or .xlsx file into raw string rows.
func ReadRows(path string) ([][]string, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return xlsx.ReadSheet(path, "", 1)
	case strings.HasSuffix(lower, ".xls"):
		return nil, fmt.Errorf("%s: legacy .xls is not supported, re-export as .xlsx or .csv", path)
	default:
		return readDelimited(path, sniffDelimiter(path))
	}
}

func readDelimited(path string, delim rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s row %d: %w", path, len(rows)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}
	return rows, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ParseNumber interprets a cell as a float. Thousands commas are tolerated
// when a decimal point is present; anything else non-numeric ("N/A", "<MDL",
// "") reports false so callers treat the cell as missing rather than zero.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
	if raw == "" {
		return 0, false
	}
	if strings.Contains(raw, ".") {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// fromRows builds a Table from raw rows, treating the first row as header.
func fromRows(rows [][]string) Table {
	if len(rows) == 0 {
		return Table{}
	}
	cols := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		cols[i] = strings.TrimSpace(c)
	}
	return Table{Columns: cols, Rows: rows[1:]}
}
