package pipeline

import "sort"

// WideRow is one sample's corrected value per element in the pivoted output.
// A nil value means the sample had no usable measurement on the element's
// chosen channel.
type WideRow struct {
	SampleID string
	Values   map[string]*float64
}

// WideTable is the one-row-per-sample, one-column-per-element result form.
type WideTable struct {
	Elements []string
	Rows     []WideRow
}

// Pivot reduces the long corrected table to the wide form, keeping a single
// channel per element: the QC-selected channel when one exists, otherwise the
// lexicographically first channel carrying data for that element. Rows are
// sorted by sample id, columns by element.
func Pivot(corrected []Corrected, selections []Selection) WideTable {
	chosen := map[string]string{}
	for _, s := range selections {
		if s.ChannelID != nil {
			chosen[s.Element] = *s.ChannelID
		}
	}
	fallback := map[string]string{}
	for _, c := range corrected {
		if _, ok := chosen[c.Element]; ok {
			continue
		}
		if cur, ok := fallback[c.Element]; !ok || c.ChannelID < cur {
			fallback[c.Element] = c.ChannelID
		}
	}
	for e, id := range fallback {
		chosen[e] = id
	}

	elemSet := map[string]bool{}
	rowIndex := map[string]int{}
	var rows []WideRow
	for _, c := range corrected {
		if chosen[c.Element] != c.ChannelID {
			continue
		}
		elemSet[c.Element] = true
		idx, ok := rowIndex[c.SampleID]
		if !ok {
			idx = len(rows)
			rowIndex[c.SampleID] = idx
			rows = append(rows, WideRow{SampleID: c.SampleID, Values: map[string]*float64{}})
		}
		rows[idx].Values[c.Element] = c.Value
	}

	elements := make([]string, 0, len(elemSet))
	for e := range elemSet {
		elements = append(elements, e)
	}
	sort.Strings(elements)
	sort.Slice(rows, func(i, j int) bool { return rows[i].SampleID < rows[j].SampleID })
	return WideTable{Elements: elements, Rows: rows}
}
