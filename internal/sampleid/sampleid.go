// Package sampleid canonicalizes sample identifiers and classifies them into
// the QC categories used by the acquisition naming convention.
package sampleid

import "strings"

// Marker tokens from the run naming convention. Reference-material samples
// keep the legacy SRM_ prefix.
const (
	BlankMarker     = "BLANK"
	CalVerifMarker  = "ICV"
	CalBlankMarker  = "ICB"
	ReferencePrefix = "SRM_"
	DuplicateMarker = "DUP"
)

// Normalize canonicalizes a raw sample name so that identifiers from
// independently produced tables match: trims whitespace, upper-cases, and
// replaces internal spaces with underscores. Idempotent; a missing name
// normalizes to the empty string.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ToUpper(s)
	return strings.ReplaceAll(s, " ", "_")
}

// IsBlank reports whether a normalized id belongs to the blank population.
func IsBlank(id string) bool {
	return strings.Contains(id, BlankMarker)
}

// IsCalibrationVerification reports whether a normalized id is an ICV standard.
func IsCalibrationVerification(id string) bool {
	return strings.Contains(id, CalVerifMarker)
}

// IsCalibrationBlank reports whether a normalized id is a calibration blank.
func IsCalibrationBlank(id string) bool {
	return strings.Contains(id, CalBlankMarker)
}

// IsReferenceMaterial reports whether a normalized id is a reference-material
// replicate.
func IsReferenceMaterial(id string) bool {
	return strings.HasPrefix(id, ReferencePrefix)
}

// IsDuplicate reports whether a normalized id is a duplicate analysis.
func IsDuplicate(id string) bool {
	return strings.Contains(id, DuplicateMarker)
}

// IsQC reports whether an id falls in one of the recognized quality-control
// categories that are run without a digestion and therefore never appear in
// the dilution-factor table.
func IsQC(id string) bool {
	return IsCalibrationVerification(id) || IsCalibrationBlank(id) ||
		IsBlank(id) || IsReferenceMaterial(id)
}

// ReferenceName extracts the reference-material name from a replicate id of
// the form SRM_<name>_<replicate>, e.g. "SRM_DOLT-5_1" -> "DOLT-5". Names may
// themselves contain underscores ("SRM_NIST_2710_1" -> "NIST_2710"), so all
// middle tokens are joined. Returns "" when the id does not fit the shape.
func ReferenceName(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) < 3 || parts[0]+"_" != ReferencePrefix {
		return ""
	}
	return strings.Join(parts[1:len(parts)-1], "_")
}
