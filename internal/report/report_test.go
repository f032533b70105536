package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/geochemlab/icpqc/internal/channel"
	"github.com/geochemlab/icpqc/internal/pipeline"
)

func fp(v float64) *float64 { return &v }

func sampleResult() *pipeline.Result {
	cu := "Cu63_He"
	return &pipeline.Result{
		RunID: "test-run",
		Samples: []pipeline.Corrected{
			{
				Measurement: pipeline.Measurement{
					SampleID: "SOIL_1", AcqTime: "2026-05-01 10:00",
					ChannelID: cu, Element: "Cu", Raw: fp(12),
				},
				DilutionFactor: 2, BlankMean: 2, Value: fp(20),
			},
			{
				Measurement: pipeline.Measurement{
					SampleID: "SOIL_2", AcqTime: "2026-05-01 10:05",
					ChannelID: cu, Element: "Cu",
				},
				DilutionFactor: 2, BlankMean: 2,
			},
		},
		Blanks: pipeline.BlankStats{
			ByChannel: map[string]pipeline.BlankStat{
				cu: {Key: cu, Mean: 2, SD: fp(0.5), MDL: fp(1.5), N: 3},
			},
			ByElement: map[string]pipeline.BlankStat{
				"Cu": {Key: "Cu", Mean: 2, SD: fp(0.5), MDL: fp(1.5), N: 3},
			},
		},
		Selections: []pipeline.Selection{
			{
				Element: "Cu", ChannelID: &cu,
				CalibrationRecovery: fp(98.2), CalibrationPass: true,
				ReferenceRecovery: fp(104.7), ReferencePass: true,
			},
			{Element: "Mo"},
		},
		BelowDetection: []pipeline.BDLRecord{
			{SampleID: "SOIL_2", Element: "Cu", ChannelID: cu, Raw: 2.4, BlankMean: 2, MDL: 1.5},
		},
		Wide: pipeline.WideTable{
			Elements: []string{"Cu"},
			Rows: []pipeline.WideRow{
				{SampleID: "SOIL_1", Values: map[string]*float64{"Cu": fp(20)}},
				{SampleID: "SOIL_2", Values: map[string]*float64{"Cu": nil}},
			},
		},
		Summary: pipeline.Summary{Samples: 2, Blanks: 3, ElementsAnalyzed: 1},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return recs
}

func TestWriteProducesAllFiles(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()
	man := Manifest{RunID: res.RunID, ExportFile: "export.csv", PPMOutput: true, Samples: 2}

	if err := Write(dir, res, man); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for _, name := range []string{
		FileCorrectedLong, FileCorrectedWide, FileQCSummary,
		FileBelowDetection, FileBlankStats, FileManifest,
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestWriteCorrectedLong(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, sampleResult(), Manifest{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	recs := readCSV(t, filepath.Join(dir, FileCorrectedLong))
	if len(recs) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(recs))
	}
	if recs[1][0] != "SOIL_1" || recs[1][7] != "20" {
		t.Errorf("unexpected first row: %v", recs[1])
	}
	// undefined values render as empty cells, not zeros
	if recs[2][4] != "" || recs[2][7] != "" {
		t.Errorf("expected empty cells for undefined values, got %v", recs[2])
	}
}

func TestWriteWideAndQCSummary(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, sampleResult(), Manifest{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	wide := readCSV(t, filepath.Join(dir, FileCorrectedWide))
	if wide[0][0] != "sample_id" || wide[0][1] != "Cu" {
		t.Errorf("unexpected wide header: %v", wide[0])
	}
	if wide[1][1] != "20" || wide[2][1] != "" {
		t.Errorf("unexpected wide values: %v %v", wide[1], wide[2])
	}

	qc := readCSV(t, filepath.Join(dir, FileQCSummary))
	if qc[1][1] != "Cu63_He" || qc[1][3] != "true" {
		t.Errorf("unexpected qc row: %v", qc[1])
	}
	// Mo has no evidence: no channel, false passes, empty recoveries
	if qc[2][1] != "" || qc[2][2] != "" || qc[2][3] != "false" {
		t.Errorf("unexpected qc row for undecided element: %v", qc[2])
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	man := Manifest{
		RunID:      "run-42",
		ExportFile: "export.xlsx",
		PPMOutput:  true,
		Samples:    7,
		Unmatched:  []string{"MYSTERY"},
	}
	if err := Write(dir, sampleResult(), man); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, FileManifest))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got Manifest
	if err := yaml.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if got.RunID != "run-42" || got.Samples != 7 || !got.PPMOutput {
		t.Errorf("manifest mismatch: %+v", got)
	}
	if len(got.Unmatched) != 1 || got.Unmatched[0] != "MYSTERY" {
		t.Errorf("unexpected unmatched list: %v", got.Unmatched)
	}
}

func TestRenderQCSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderQCSummary(&buf, sampleResult().Selections)
	out := buf.String()
	if !strings.Contains(out, "Cu63_He") {
		t.Errorf("expected selected channel in output:\n%s", out)
	}
	if !strings.Contains(out, "✓") || !strings.Contains(out, "✗") {
		t.Errorf("expected pass and fail marks in output:\n%s", out)
	}
}

func TestRenderChannels(t *testing.T) {
	set, err := channel.ParseHeaders([]string{"63  Cu  [ He ]", "75 -> 91  As  [ O2 ]"})
	if err != nil {
		t.Fatalf("ParseHeaders failed: %v", err)
	}

	var buf bytes.Buffer
	RenderChannels(&buf, set)
	out := buf.String()
	if !strings.Contains(out, "As75to91_O2") || !strings.Contains(out, "(2 channels)") {
		t.Errorf("unexpected channel listing:\n%s", out)
	}
	if !strings.Contains(out, "91 (shift)") {
		t.Errorf("expected mass-shift marker in output:\n%s", out)
	}
}
