package table

import (
	"fmt"
	"strings"

	"github.com/geochemlab/icpqc/internal/sampleid"
)

// UnitLabelSentinel is the literal the instrument writes in the optional
// unit-label row directly under the header.
const UnitLabelSentinel = "Conc."

// LoadInstrumentExport loads the wide per-sample export: one metadata column
// for acquisition time, one for the sample name, and one column per channel
// header. The metadata columns are discovered heuristically and renamed to
// acq_time / sample_id; sample names are normalized in place. Returned
// warnings record every heuristic fallback taken.
func LoadInstrumentExport(path string) (Table, []string, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return Table{}, nil, err
	}
	var warnings []string

	// Some export variants put element symbols in the first row and the real
	// header in the second, leaving most leading first-row cells blank.
	if offsetHeader(rows) {
		warnings = append(warnings, "instrument export: header found on row 2, ignoring row 1")
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return Table{}, nil, fmt.Errorf("instrument export %s: empty file", path)
	}
	t := fromRows(rows)

	acqIdx, acqHow := discoverColumn(acqTimeHeuristics, t.Columns, -1)
	if acqIdx < 0 {
		return Table{}, nil, fmt.Errorf("instrument export %s: no columns", path)
	}
	sampleIdx, sampleHow := discoverColumn(sampleIDHeuristics, t.Columns, acqIdx)
	if sampleIdx < 0 {
		return Table{}, nil, fmt.Errorf("instrument export %s: cannot locate a sample-name column", path)
	}
	if !strings.HasPrefix(acqHow, "keyword") {
		warnings = append(warnings, fmt.Sprintf("instrument export: no acquisition-time header matched, using %s (%q)", acqHow, t.Columns[acqIdx]))
	}
	if !strings.HasPrefix(sampleHow, "keyword") {
		warnings = append(warnings, fmt.Sprintf("instrument export: no sample-name header matched, using %s (%q)", sampleHow, t.Columns[sampleIdx]))
	}
	t.Columns[acqIdx] = ColAcqTime
	t.Columns[sampleIdx] = ColSampleID

	// Drop the unit-label row when every channel cell directly under the
	// header carries the sentinel.
	if unitLabelRow(t, acqIdx, sampleIdx) {
		t.Rows = t.Rows[1:]
	}

	for _, row := range t.Rows {
		if sampleIdx < len(row) {
			row[sampleIdx] = sampleid.Normalize(row[sampleIdx])
		}
	}
	return t, warnings, nil
}

// offsetHeader reports whether the real header sits on row 2: three or more
// of the first five first-row cells blank is the export's tell.
func offsetHeader(rows [][]string) bool {
	if len(rows) < 2 {
		return false
	}
	blank := 0
	n := len(rows[0])
	if n > discoveryWindow {
		n = discoveryWindow
	}
	for i := 0; i < n; i++ {
		if strings.TrimSpace(rows[0][i]) == "" {
			blank++
		}
	}
	return blank >= 3
}

func unitLabelRow(t Table, acqIdx, sampleIdx int) bool {
	if len(t.Rows) == 0 {
		return false
	}
	seen := false
	for j := range t.Columns {
		if j == acqIdx || j == sampleIdx {
			continue
		}
		seen = true
		if t.Cell(0, j) != UnitLabelSentinel {
			return false
		}
	}
	return seen
}

// ChannelHeaders returns the export's non-metadata column headers in order.
func ChannelHeaders(t Table) []string {
	var out []string
	for _, c := range t.Columns {
		if c == ColAcqTime || c == ColSampleID {
			continue
		}
		out = append(out, c)
	}
	return out
}
