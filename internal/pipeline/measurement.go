// Package pipeline implements the batch transformation from a wide
// instrument export to quality-controlled, blank-corrected concentrations.
// Stages run strictly forward; each consumes the previous stage's output by
// value and produces new tables, never mutating its input.
package pipeline

import (
	"github.com/geochemlab/icpqc/internal/channel"
	"github.com/geochemlab/icpqc/internal/table"
)

// Measurement is one sample × channel observation from the long table. Raw is
// nil when the export cell was empty or non-numeric, so downstream statistics
// exclude it instead of counting a zero.
type Measurement struct {
	SampleID  string
	AcqTime   string
	ChannelID string
	Element   string
	Raw       *float64
}

// Reshape pivots the wide export (one row per sample, one column per
// channel) into the long measurement table, attaching channel metadata from
// the parsed header set. Columns whose header did not parse are ignored.
func Reshape(t table.Table, set channel.Set) []Measurement {
	acqIdx := t.ColumnIndex(table.ColAcqTime)
	sampleIdx := t.ColumnIndex(table.ColSampleID)

	type boundChannel struct {
		col int
		d   channel.Descriptor
	}
	var bound []boundChannel
	for i, c := range t.Columns {
		if i == acqIdx || i == sampleIdx {
			continue
		}
		if d, ok := descriptorForHeader(set, c); ok {
			bound = append(bound, boundChannel{col: i, d: d})
		}
	}

	out := make([]Measurement, 0, len(t.Rows)*len(bound))
	for r := range t.Rows {
		sample := t.Cell(r, sampleIdx)
		acq := t.Cell(r, acqIdx)
		for _, b := range bound {
			m := Measurement{
				SampleID:  sample,
				AcqTime:   acq,
				ChannelID: b.d.ID,
				Element:   b.d.Element,
			}
			if v, ok := table.ParseNumber(t.Cell(r, b.col)); ok {
				m.Raw = &v
			}
			out = append(out, m)
		}
	}
	return out
}

func descriptorForHeader(set channel.Set, header string) (channel.Descriptor, bool) {
	for _, d := range set.Descriptors {
		if d.Header == header {
			return d, true
		}
	}
	return channel.Descriptor{}, false
}
