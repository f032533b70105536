package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/geochemlab/icpqc/internal/channel"
	"github.com/geochemlab/icpqc/internal/sampleid"
	"github.com/geochemlab/icpqc/internal/table"
)

// Options tune the run. Zero values fall back to the conventional defaults.
type Options struct {
	// PPMOutput divides corrected values by 1000 for mg/kg (ppm) output.
	PPMOutput bool
	// MDLMultiplier scales the blank SD into the detection limit; default 3.
	MDLMultiplier float64
	CalibrationBand Band
	ReferenceBand   Band
}

func (o Options) withDefaults() Options {
	if o.MDLMultiplier <= 0 {
		o.MDLMultiplier = 3
	}
	if o.CalibrationBand == (Band{}) {
		o.CalibrationBand = DefaultCalibrationBand
	}
	if o.ReferenceBand == (Band{}) {
		o.ReferenceBand = DefaultReferenceBand
	}
	return o
}

// Inputs are the loaded input tables. RefValues is optional.
type Inputs struct {
	Export    table.Table
	Dilution  map[string]float64
	Targets   table.Targets
	RefValues *table.RefValues
}

// Summary is the run's headline numbers.
type Summary struct {
	Samples             int
	Blanks              int
	CalVerifications    int
	ReferenceReplicates int
	ElementsAnalyzed    int
	CalibrationPassPct  float64
	ReferencePassPct    float64
}

// Result is everything one batch run produces. All tables are complete before
// Run returns; nothing streams and nothing persists across runs.
type Result struct {
	RunID          string
	Channels       channel.Set
	Measurements   []Measurement
	Corrected      []Corrected
	Samples        []Corrected
	Blanks         BlankStats
	Recoveries     RecoverySet
	Selections     []Selection
	BelowDetection []BDLRecord
	Wide           WideTable
	Unmatched      []string
	Warnings       []string
	Summary        Summary
}

// Run executes the full pipeline over one instrument run. Fatal errors come
// only from defective channel-header assignment; every data-quality anomaly
// is instead surfaced in the result (warnings, unmatched list, undefined
// recoveries, nil selections) so a run always completes and reports on
// itself.
func Run(in Inputs, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	set, err := channel.ParseHeaders(table.ChannelHeaders(in.Export))
	if err != nil {
		return nil, fmt.Errorf("parse channel headers: %w", err)
	}
	if len(set.Descriptors) == 0 {
		return nil, fmt.Errorf("instrument export has no parseable channel columns")
	}

	res := &Result{
		RunID:    uuid.NewString(),
		Channels: set,
		Warnings: append([]string(nil), set.Warnings...),
	}

	res.Measurements = Reshape(in.Export, set)
	res.Blanks = ComputeBlankStats(res.Measurements, opts.MDLMultiplier)

	corr := Correct(res.Measurements, in.Dilution, res.Blanks, opts.PPMOutput)
	res.Corrected = corr.Measurements
	res.Unmatched = corr.Unmatched

	res.Recoveries = ComputeRecoveries(res.Corrected, in.Targets, in.RefValues)
	res.Selections = SelectChannels(set, res.Recoveries, opts.CalibrationBand, opts.ReferenceBand)
	res.BelowDetection = BelowDetection(res.Measurements, res.Blanks)

	res.Samples = sampleRows(res.Corrected)
	res.Wide = Pivot(res.Samples, res.Selections)
	res.Summary = summarize(res)
	return res, nil
}

// sampleRows drops QC rows (blanks, calibration verifications, duplicates,
// reference materials) so the reported tables carry ordinary samples only.
func sampleRows(corrected []Corrected) []Corrected {
	out := make([]Corrected, 0, len(corrected))
	for _, c := range corrected {
		id := c.SampleID
		if sampleid.IsBlank(id) || sampleid.IsCalibrationVerification(id) ||
			sampleid.IsDuplicate(id) || sampleid.IsReferenceMaterial(id) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func summarize(res *Result) Summary {
	s := Summary{ElementsAnalyzed: len(res.Selections)}
	s.Samples = countUnique(res.Samples, func(c Corrected) bool { return true })
	s.Blanks = countUnique(res.Corrected, func(c Corrected) bool { return sampleid.IsBlank(c.SampleID) })
	s.CalVerifications = countUnique(res.Corrected, func(c Corrected) bool { return sampleid.IsCalibrationVerification(c.SampleID) })
	s.ReferenceReplicates = countUnique(res.Corrected, func(c Corrected) bool { return sampleid.IsReferenceMaterial(c.SampleID) })
	if n := len(res.Selections); n > 0 {
		var calPass, refPass int
		for _, sel := range res.Selections {
			if sel.CalibrationPass {
				calPass++
			}
			if sel.ReferencePass {
				refPass++
			}
		}
		s.CalibrationPassPct = float64(calPass) / float64(n) * 100
		s.ReferencePassPct = float64(refPass) / float64(n) * 100
	}
	return s
}

func countUnique(cs []Corrected, pred func(Corrected) bool) int {
	seen := map[string]bool{}
	for _, c := range cs {
		if pred(c) {
			seen[c.SampleID] = true
		}
	}
	return len(seen)
}
