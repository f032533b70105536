package pipeline

import (
	"testing"

	"github.com/geochemlab/icpqc/internal/table"
)

// buildExport assembles a small but complete instrument run: two competing
// arsenic channels, blanks, an ICV, reference-material replicates, ordinary
// samples, a duplicate, and one sample missing from the dilution table.
func buildExport() table.Table {
	return table.Table{
		Columns: []string{table.ColAcqTime, table.ColSampleID, "75 As [ He ]", "75 -> 91 As [ O2 ]", "banana"},
		Rows: [][]string{
			{"10:00", "BLANK_1", "1", "0.5", "x"},
			{"10:05", "BLANK_2", "3", "1.5", "x"},
			{"10:10", "ICV_1", "85", "98", "x"},
			{"10:15", "SRM_DOLT-5_1", "192", "200", "x"},
			{"10:20", "SOIL_1", "52", "61", "x"},
			{"10:25", "SOIL_1_DUP", "53", "60", "x"},
			{"10:30", "MYSTERY", "9", "9", "x"},
		},
	}
}

func TestRunEndToEnd(t *testing.T) {
	// Blank means: As75_He = 2, As75to91_O2 = 1.
	// ICV targets 100 => recoveries (85-2)/100, (98-1)/100 -> 83%, 97%.
	// DOLT-5 target 200 => (192-2)/200, (200-1)/200 -> 95%, 99.5%.
	// Only As75to91_O2 passes both bands.
	targets := table.Targets{"As": {Calibration: 100}}
	rv := refValuesFromLong(t, "DOLT-5", "As", 200)

	res, err := Run(Inputs{
		Export:    buildExport(),
		Dilution:  map[string]float64{"SOIL_1": 2, "SOIL_1_DUP": 2},
		Targets:   targets,
		RefValues: rv,
	}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatalf("missing run id")
	}
	// The unparsable "banana" column must produce a warning, not a failure.
	if len(res.Warnings) == 0 {
		t.Fatalf("expected a skipped-header warning")
	}
	if len(res.Channels.Descriptors) != 2 {
		t.Fatalf("channels = %d, want 2", len(res.Channels.Descriptors))
	}

	if len(res.Selections) != 1 {
		t.Fatalf("selections = %+v", res.Selections)
	}
	sel := res.Selections[0]
	if sel.ChannelID == nil || *sel.ChannelID != "As75to91_O2" {
		t.Fatalf("selected channel = %v, want As75to91_O2", sel.ChannelID)
	}
	if !sel.CalibrationPass || !sel.ReferencePass {
		t.Fatalf("selection passes = %+v", sel)
	}

	if len(res.Unmatched) != 1 || res.Unmatched[0] != "MYSTERY" {
		t.Fatalf("unmatched = %v", res.Unmatched)
	}

	// SOIL_1 corrected on the selected channel: (61 - 1) * 2 = 120.
	var found bool
	for _, row := range res.Wide.Rows {
		if row.SampleID == "SOIL_1" {
			found = true
			if v := row.Values["As"]; v == nil || *v != 120 {
				t.Fatalf("SOIL_1 As = %v, want 120", v)
			}
		}
		if row.SampleID == "SOIL_1_DUP" || row.SampleID == "ICV_1" {
			t.Fatalf("QC/duplicate row leaked into the wide table: %s", row.SampleID)
		}
	}
	if !found {
		t.Fatalf("SOIL_1 missing from wide table: %+v", res.Wide.Rows)
	}

	s := res.Summary
	if s.Samples != 2 || s.Blanks != 2 || s.CalVerifications != 1 || s.ReferenceReplicates != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.ElementsAnalyzed != 1 || s.CalibrationPassPct != 100 || s.ReferencePassPct != 100 {
		t.Fatalf("summary rates = %+v", s)
	}
}

func TestRunFailsWithoutParseableChannels(t *testing.T) {
	export := table.Table{
		Columns: []string{table.ColAcqTime, table.ColSampleID, "notes"},
		Rows:    [][]string{{"10:00", "SOIL_1", "ok"}},
	}
	if _, err := Run(Inputs{Export: export, Targets: table.Targets{}}, Options{}); err == nil {
		t.Fatalf("expected error for export without channel columns")
	}
}
