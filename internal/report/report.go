// Package report renders a pipeline result for the outside world: CSV result
// tables plus a yaml run manifest on disk, and compact terminal tables for
// the operator. Everything here is presentation; no QC math happens in this
// package.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/geochemlab/icpqc/internal/pipeline"
)

// Output file names inside the run's output directory.
const (
	FileCorrectedLong  = "corrected_long.csv"
	FileCorrectedWide  = "corrected_wide.csv"
	FileQCSummary      = "qc_summary.csv"
	FileBelowDetection = "below_detection.csv"
	FileBlankStats     = "blank_stats.csv"
	FileManifest       = "run.yaml"
)

// Manifest is the machine-readable record of one run, written alongside the
// result tables.
type Manifest struct {
	RunID               string   `yaml:"run_id"`
	GeneratedAt         string   `yaml:"generated_at"`
	ExportFile          string   `yaml:"export_file"`
	DilutionFile        string   `yaml:"dilution_file"`
	TargetsFile         string   `yaml:"targets_file"`
	RefFile             string   `yaml:"ref_file,omitempty"`
	PPMOutput           bool     `yaml:"ppm_output"`
	Samples             int      `yaml:"samples"`
	Blanks              int      `yaml:"blanks"`
	CalVerifications    int      `yaml:"cal_verifications"`
	ReferenceReplicates int      `yaml:"reference_replicates"`
	ElementsAnalyzed    int      `yaml:"elements_analyzed"`
	CalibrationPassPct  float64  `yaml:"calibration_pass_pct"`
	ReferencePassPct    float64  `yaml:"reference_pass_pct"`
	Unmatched           []string `yaml:"unmatched_samples,omitempty"`
	Warnings            []string `yaml:"warnings,omitempty"`
}

// Write renders every result table plus the manifest into dir, creating it
// if needed.
func Write(dir string, res *pipeline.Result, man Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	if err := writeCorrectedLong(filepath.Join(dir, FileCorrectedLong), res.Samples); err != nil {
		return err
	}
	if err := writeCorrectedWide(filepath.Join(dir, FileCorrectedWide), res.Wide); err != nil {
		return err
	}
	if err := writeQCSummary(filepath.Join(dir, FileQCSummary), res.Selections); err != nil {
		return err
	}
	if err := writeBelowDetection(filepath.Join(dir, FileBelowDetection), res.BelowDetection); err != nil {
		return err
	}
	if err := writeBlankStats(filepath.Join(dir, FileBlankStats), res.Blanks); err != nil {
		return err
	}
	b, err := yaml.Marshal(man)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileManifest), b, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func writeCorrectedLong(path string, rows []pipeline.Corrected) error {
	recs := [][]string{{"sample_id", "acq_time", "element", "channel_id", "raw", "dilution_factor", "blank_mean", "corrected"}}
	for _, c := range rows {
		recs = append(recs, []string{
			c.SampleID, c.AcqTime, c.Element, c.ChannelID,
			num(c.Raw), f(c.DilutionFactor), f(c.BlankMean), num(c.Value),
		})
	}
	return writeCSV(path, recs)
}

func writeCorrectedWide(path string, w pipeline.WideTable) error {
	header := append([]string{"sample_id"}, w.Elements...)
	recs := [][]string{header}
	for _, row := range w.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, row.SampleID)
		for _, e := range w.Elements {
			rec = append(rec, num(row.Values[e]))
		}
		recs = append(recs, rec)
	}
	return writeCSV(path, recs)
}

func writeQCSummary(path string, sels []pipeline.Selection) error {
	recs := [][]string{{"element", "selected_channel_id", "cal_recovery_pct", "cal_pass", "ref_recovery_pct", "ref_pass"}}
	for _, s := range sels {
		id := ""
		if s.ChannelID != nil {
			id = *s.ChannelID
		}
		recs = append(recs, []string{
			s.Element, id,
			num(s.CalibrationRecovery), strconv.FormatBool(s.CalibrationPass),
			num(s.ReferenceRecovery), strconv.FormatBool(s.ReferencePass),
		})
	}
	return writeCSV(path, recs)
}

func writeBelowDetection(path string, rows []pipeline.BDLRecord) error {
	recs := [][]string{{"sample_id", "element", "channel_id", "raw", "blank_mean", "mdl"}}
	for _, r := range rows {
		recs = append(recs, []string{
			r.SampleID, r.Element, r.ChannelID, f(r.Raw), f(r.BlankMean), f(r.MDL),
		})
	}
	return writeCSV(path, recs)
}

func writeBlankStats(path string, b pipeline.BlankStats) error {
	recs := [][]string{{"scope", "key", "mean", "sd", "mdl", "n"}}
	for _, key := range b.ChannelKeys() {
		recs = append(recs, blankStatRecord("channel", b.ByChannel[key]))
	}
	for _, key := range b.ElementKeys() {
		recs = append(recs, blankStatRecord("element", b.ByElement[key]))
	}
	return writeCSV(path, recs)
}

func blankStatRecord(scope string, s pipeline.BlankStat) []string {
	return []string{scope, s.Key, f(s.Mean), num(s.SD), num(s.MDL), strconv.Itoa(s.N)}
}

func writeCSV(path string, recs [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(file)
	if err := w.WriteAll(recs); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func f(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// num renders an optional value; undefined stays an empty cell, never zero.
func num(v *float64) string {
	if v == nil {
		return ""
	}
	return f(*v)
}
