package table

import (
	"fmt"
	"strings"
)

// RefValues holds certified reference-material target concentrations in the
// working unit (µg/kg). When Named is true, lookups require the reference
// name; otherwise a single anonymous reference is assumed and values join on
// element alone.
type RefValues struct {
	Named     bool
	byRefElem map[string]float64
	byElem    map[string]float64
}

// Lookup resolves the target for a (reference name, element) pair.
func (r RefValues) Lookup(refName, element string) (float64, bool) {
	if r.Named {
		v, ok := r.byRefElem[refKey(refName, element)]
		return v, ok
	}
	v, ok := r.byElem[element]
	return v, ok
}

func refKey(name, element string) string { return name + "\x00" + element }

// A wide-matrix file has one column per element; anything beyond this many
// columns cannot be the long {ref_name, element, target_value} form.
const wideFormatThreshold = 10

// mgPerKgToWorking converts a certified value from mg/kg to µg/kg.
const mgPerKgToWorking = 1000

// LoadReferenceValues loads the optional reference-value table. Two layouts
// are accepted:
//
//   - long: {ref_name, element, target_value} (ref_name optional), values
//     already in the working unit;
//   - wide: element symbols across the first row starting at the third
//     column, two more header rows (names, units), then one row per
//     reference material with its name in the second column and mg/kg
//     values that are converted to the working unit.
func LoadReferenceValues(path string) (RefValues, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return RefValues{}, err
	}
	if len(rows) == 0 {
		return RefValues{}, fmt.Errorf("reference-value table %s: empty file", path)
	}
	if len(rows[0]) > wideFormatThreshold {
		return loadWideReferenceValues(path, rows)
	}
	return loadLongReferenceValues(path, rows)
}

func loadLongReferenceValues(path string, rows [][]string) (RefValues, error) {
	t := fromRows(rows)
	elemIdx := t.ColumnIndex("element")
	valIdx := t.ColumnIndex("target_value")
	if elemIdx < 0 || valIdx < 0 {
		return RefValues{}, fmt.Errorf("reference-value table %s: expected schema {ref_name, element, target_value}, found columns %v", path, t.Columns)
	}
	nameIdx := t.ColumnIndex("ref_name")

	rv := RefValues{
		Named:     nameIdx >= 0,
		byRefElem: map[string]float64{},
		byElem:    map[string]float64{},
	}
	for i := range t.Rows {
		elem := t.Cell(i, elemIdx)
		if elem == "" {
			continue
		}
		v, ok := ParseNumber(t.Cell(i, valIdx))
		if !ok {
			continue
		}
		if rv.Named {
			rv.byRefElem[refKey(t.Cell(i, nameIdx), elem)] = v
		} else {
			rv.byElem[elem] = v
		}
	}
	return rv, nil
}

func loadWideReferenceValues(path string, rows [][]string) (RefValues, error) {
	if len(rows) < 4 {
		return RefValues{}, fmt.Errorf("reference-value table %s: wide layout needs 3 header rows plus data", path)
	}
	symbols := rows[0]
	rv := RefValues{Named: true, byRefElem: map[string]float64{}, byElem: map[string]float64{}}
	for _, row := range rows[3:] {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[1])
		if name == "" {
			continue
		}
		for j := 2; j < len(row) && j < len(symbols); j++ {
			elem := strings.TrimSpace(symbols[j])
			if elem == "" {
				continue
			}
			v, ok := ParseNumber(row[j])
			if !ok {
				continue
			}
			rv.byRefElem[refKey(name, elem)] = v * mgPerKgToWorking
		}
	}
	if len(rv.byRefElem) == 0 {
		return RefValues{}, fmt.Errorf("reference-value table %s: wide layout yielded no values", path)
	}
	return rv, nil
}
