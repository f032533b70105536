package pipeline

// BDLRecord describes one measurement that is statistically indistinguishable
// from blank noise. It carries everything the report needs to render the
// below-detection table without recomputation.
type BDLRecord struct {
	SampleID  string
	Element   string
	ChannelID string
	Raw       float64
	BlankMean float64
	MDL       float64
}

// BelowDetection flags measurements whose blank-subtracted raw value falls
// strictly under the element detection limit; a value exactly at the limit is
// not flagged. Elements with an undefined detection limit (fewer than two
// blank observations) never flag a row, and missing raw values cannot be
// classified.
func BelowDetection(ms []Measurement, blanks BlankStats) []BDLRecord {
	var out []BDLRecord
	for _, m := range ms {
		if m.Raw == nil {
			continue
		}
		st, ok := blanks.ByElement[m.Element]
		if !ok || st.MDL == nil {
			continue
		}
		if *m.Raw-st.Mean < *st.MDL {
			out = append(out, BDLRecord{
				SampleID:  m.SampleID,
				Element:   m.Element,
				ChannelID: m.ChannelID,
				Raw:       *m.Raw,
				BlankMean: st.Mean,
				MDL:       *st.MDL,
			})
		}
	}
	return out
}
