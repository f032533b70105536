package table

import (
	"fmt"

	"github.com/geochemlab/icpqc/internal/sampleid"
)

// LoadDilutionTable loads the {sample_id, df} table mapping each digested
// sample to its dilution/digestion factor. Accepts delimited text or .xlsx.
// A missing required column is fatal; a non-positive or unparsable factor is
// fatal too, since it would silently corrupt every corrected value downstream.
func LoadDilutionTable(path string) (map[string]float64, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	t := fromRows(rows)
	idIdx := t.ColumnIndex(ColSampleID)
	dfIdx := t.ColumnIndex("df")
	if idIdx < 0 || dfIdx < 0 {
		return nil, fmt.Errorf("dilution table %s: expected schema {sample_id, df}, found columns %v", path, t.Columns)
	}
	out := make(map[string]float64, len(t.Rows))
	for i := range t.Rows {
		id := sampleid.Normalize(t.Cell(i, idIdx))
		raw := t.Cell(i, dfIdx)
		if id == "" && raw == "" {
			continue
		}
		df, ok := ParseNumber(raw)
		if !ok || df <= 0 {
			return nil, fmt.Errorf("dilution table %s row %d: factor %q for sample %s must be a positive number", path, i+2, raw, id)
		}
		out[id] = df
	}
	return out, nil
}
