package pipeline

import (
	"math"
	"sort"

	"github.com/geochemlab/icpqc/internal/sampleid"
)

// BlankStat summarizes the blank population for one channel or one element.
// SD and MDL are nil with fewer than two blank observations; comparisons
// against a nil detection limit must resolve to "not below detection".
type BlankStat struct {
	Key  string
	Mean float64
	SD   *float64
	MDL  *float64
	N    int
}

// BlankStats carries the per-channel and per-element blank statistics.
type BlankStats struct {
	ByChannel map[string]BlankStat
	ByElement map[string]BlankStat
}

// ComputeBlankStats computes mean, sample standard deviation, and detection
// limit (mdlMultiplier × SD) over every measurement whose sample id marks it
// as a blank, grouped by channel and separately by element.
func ComputeBlankStats(ms []Measurement, mdlMultiplier float64) BlankStats {
	chanAcc := map[string]*welford{}
	elemAcc := map[string]*welford{}
	for _, m := range ms {
		if m.Raw == nil || !sampleid.IsBlank(m.SampleID) {
			continue
		}
		accumulate(chanAcc, m.ChannelID, *m.Raw)
		accumulate(elemAcc, m.Element, *m.Raw)
	}
	return BlankStats{
		ByChannel: finalize(chanAcc, mdlMultiplier),
		ByElement: finalize(elemAcc, mdlMultiplier),
	}
}

// ChannelKeys returns the channel ids with blank statistics, sorted.
func (b BlankStats) ChannelKeys() []string { return sortedKeys(b.ByChannel) }

// ElementKeys returns the elements with blank statistics, sorted.
func (b BlankStats) ElementKeys() []string { return sortedKeys(b.ByElement) }

func sortedKeys(m map[string]BlankStat) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// welford is the numerically stable mean/variance accumulator.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func accumulate(acc map[string]*welford, key string, x float64) {
	w := acc[key]
	if w == nil {
		w = &welford{}
		acc[key] = w
	}
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

func finalize(acc map[string]*welford, mdlMultiplier float64) map[string]BlankStat {
	out := make(map[string]BlankStat, len(acc))
	for key, w := range acc {
		s := BlankStat{Key: key, Mean: w.mean, N: w.n}
		if w.n > 1 {
			sd := math.Sqrt(w.m2 / float64(w.n-1))
			mdl := mdlMultiplier * sd
			s.SD = &sd
			s.MDL = &mdl
		}
		out[key] = s
	}
	return out
}
