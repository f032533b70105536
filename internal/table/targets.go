package table

import (
	"fmt"
	"strings"
)

// Target is the per-element pair of QC targets from the calibration file. The
// reference target is the element-only fallback used when no reference-value
// table is supplied.
type Target struct {
	Calibration float64
	Reference   *float64
}

// Targets maps element symbol to its QC targets.
type Targets map[string]Target

// Column-name candidates; both the generic and the legacy instrument-bench
// spellings are accepted.
var (
	calTargetColumns = []string{"cal_target", "icv_target", "calibration_target"}
	refTargetColumns = []string{"ref_target", "srm_target", "reference_target"}
)

// LoadCalibrationTargets loads {element, cal_target[, ref_target]}. element
// and the calibration target are required; the reference-target column is
// optional.
func LoadCalibrationTargets(path string) (Targets, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	t := fromRows(rows)
	elemIdx := t.ColumnIndex("element")
	calIdx := anyColumn(t, calTargetColumns)
	if elemIdx < 0 || calIdx < 0 {
		return nil, fmt.Errorf("calibration-target table %s: expected schema {element, cal_target[, ref_target]}, found columns %v", path, t.Columns)
	}
	refIdx := anyColumn(t, refTargetColumns)

	out := make(Targets, len(t.Rows))
	for i := range t.Rows {
		elem := strings.TrimSpace(t.Cell(i, elemIdx))
		if elem == "" {
			continue
		}
		cal, ok := ParseNumber(t.Cell(i, calIdx))
		if !ok {
			return nil, fmt.Errorf("calibration-target table %s row %d: target %q for element %s is not numeric", path, i+2, t.Cell(i, calIdx), elem)
		}
		tgt := Target{Calibration: cal}
		if refIdx >= 0 {
			if v, ok := ParseNumber(t.Cell(i, refIdx)); ok {
				tgt.Reference = &v
			}
		}
		out[elem] = tgt
	}
	return out, nil
}

func anyColumn(t Table, names []string) int {
	for _, n := range names {
		if idx := t.ColumnIndex(n); idx >= 0 {
			return idx
		}
	}
	return -1
}
