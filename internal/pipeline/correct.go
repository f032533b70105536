package pipeline

import (
	"sort"

	"github.com/geochemlab/icpqc/internal/sampleid"
)

// ppmDivisor converts working-unit (µg/kg) results to mg/kg when ppm output
// is requested.
const ppmDivisor = 1000.0

// Corrected extends a Measurement with the join inputs actually used and the
// blank-corrected, dilution-scaled value. Value is nil when the raw
// observation was missing; otherwise it is clamped at zero.
type Corrected struct {
	Measurement
	DilutionFactor float64
	BlankMean      float64
	Value          *float64
}

// CorrectionResult is the correction stage's complete output. Unmatched is a
// first-class part of the result: the sorted, deduplicated ids of ordinary
// samples that had no dilution factor and silently defaulted to 1.0.
type CorrectionResult struct {
	Measurements []Corrected
	Unmatched    []string
}

// Correct left-joins the dilution factor by sample id (missing ⇒ 1.0) and the
// channel-level blank mean by channel id (missing ⇒ 0.0), then computes
//
//	corrected = (raw − blank_mean) × df
//
// divided by 1000 when ppm output is requested, clamped at zero. Recognized
// QC categories are expected to miss the dilution join; any other sample
// doing so lands in Unmatched.
func Correct(ms []Measurement, dilution map[string]float64, blanks BlankStats, ppm bool) CorrectionResult {
	res := CorrectionResult{Measurements: make([]Corrected, 0, len(ms))}
	unmatched := map[string]bool{}
	for _, m := range ms {
		c := Corrected{Measurement: m, DilutionFactor: 1.0}
		if df, ok := dilution[m.SampleID]; ok {
			c.DilutionFactor = df
		} else if !sampleid.IsQC(m.SampleID) {
			unmatched[m.SampleID] = true
		}
		if bs, ok := blanks.ByChannel[m.ChannelID]; ok {
			c.BlankMean = bs.Mean
		}
		if m.Raw != nil {
			v := (*m.Raw - c.BlankMean) * c.DilutionFactor
			if ppm {
				v /= ppmDivisor
			}
			if v < 0 {
				v = 0
			}
			c.Value = &v
		}
		res.Measurements = append(res.Measurements, c)
	}
	for id := range unmatched {
		res.Unmatched = append(res.Unmatched, id)
	}
	sort.Strings(res.Unmatched)
	return res
}
