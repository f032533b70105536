package pipeline

import (
	"github.com/geochemlab/icpqc/internal/sampleid"
	"github.com/geochemlab/icpqc/internal/table"
)

// RecoveryKind distinguishes the two QC recovery populations.
type RecoveryKind string

const (
	KindCalibration RecoveryKind = "calibration-verification"
	KindReference   RecoveryKind = "reference-material"
)

// Recovery is one QC measurement's percent recovery against its target.
// Target and Percent are nil when no target could be resolved — an undefined
// recovery, never zero.
type Recovery struct {
	Kind      RecoveryKind
	SampleID  string
	ChannelID string
	Element   string
	Target    *float64
	Percent   *float64
}

// RecoverySet groups recoveries by kind.
type RecoverySet struct {
	Calibration []Recovery
	Reference   []Recovery
}

// ComputeRecoveries finds the calibration-verification and reference-material
// rows among the corrected measurements and computes percent recovery for
// each.
//
// Calibration targets join by element. Reference targets resolve in priority
// order: the reference-value table keyed by (reference name, element) when
// supplied, otherwise the calibration file's per-element reference target.
func ComputeRecoveries(corrected []Corrected, targets table.Targets, refs *table.RefValues) RecoverySet {
	var set RecoverySet
	for _, c := range corrected {
		switch {
		case sampleid.IsCalibrationVerification(c.SampleID):
			r := Recovery{
				Kind:      KindCalibration,
				SampleID:  c.SampleID,
				ChannelID: c.ChannelID,
				Element:   c.Element,
			}
			if tgt, ok := targets[c.Element]; ok {
				r.Target = &tgt.Calibration
				r.Percent = percentOf(c.Value, tgt.Calibration)
			}
			set.Calibration = append(set.Calibration, r)

		case sampleid.IsReferenceMaterial(c.SampleID):
			r := Recovery{
				Kind:      KindReference,
				SampleID:  c.SampleID,
				ChannelID: c.ChannelID,
				Element:   c.Element,
			}
			if target, ok := referenceTarget(c, targets, refs); ok {
				r.Target = &target
				r.Percent = percentOf(c.Value, target)
			}
			set.Reference = append(set.Reference, r)
		}
	}
	return set
}

func referenceTarget(c Corrected, targets table.Targets, refs *table.RefValues) (float64, bool) {
	if refs != nil {
		return refs.Lookup(sampleid.ReferenceName(c.SampleID), c.Element)
	}
	if tgt, ok := targets[c.Element]; ok && tgt.Reference != nil {
		return *tgt.Reference, true
	}
	return 0, false
}

func percentOf(value *float64, target float64) *float64 {
	if value == nil || target == 0 {
		return nil
	}
	p := *value / target * 100
	return &p
}
