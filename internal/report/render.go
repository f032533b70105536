package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/geochemlab/icpqc/internal/channel"
	"github.com/geochemlab/icpqc/internal/pipeline"
)

// RenderQCSummary prints the per-element channel selection outcome.
func RenderQCSummary(w io.Writer, sels []pipeline.Selection) {
	if len(sels) == 0 {
		_, _ = fmt.Fprintln(w, "(no elements)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Element", "Channel", "Cal %", "Cal", "Ref %", "Ref"})

	for _, s := range sels {
		id := "-"
		if s.ChannelID != nil {
			id = *s.ChannelID
		}
		t.AppendRow(table.Row{
			s.Element, id,
			pct(s.CalibrationRecovery), passMark(s.CalibrationPass),
			pct(s.ReferenceRecovery), passMark(s.ReferencePass),
		})
	}
	t.Render()
}

// RenderChannels prints every analyte channel parsed from an export header row.
func RenderChannels(w io.Writer, set channel.Set) {
	if len(set.Descriptors) == 0 {
		_, _ = fmt.Fprintln(w, "(no channels)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Channel", "Element", "Mass", "Analyzed", "Gas", "Header"})

	for _, d := range set.Descriptors {
		gas := d.GasMode
		if gas == "" {
			gas = "-"
		}
		analyzed := fmt.Sprintf("%d", d.AnalyzedMass)
		if d.MassShift {
			analyzed += " (shift)"
		}
		t.AppendRow(table.Row{d.ID, d.Element, d.NominalMass, analyzed, gas, d.Header})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d channels)\n", len(set.Descriptors))
}

// RenderRunSummary prints the run-level counts after processing.
func RenderRunSummary(w io.Writer, res *pipeline.Result) {
	s := res.Summary
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"Samples", s.Samples})
	t.AppendRow(table.Row{"Blanks", s.Blanks})
	t.AppendRow(table.Row{"Cal verifications", s.CalVerifications})
	t.AppendRow(table.Row{"Reference replicates", s.ReferenceReplicates})
	t.AppendRow(table.Row{"Elements analyzed", s.ElementsAnalyzed})
	t.AppendRow(table.Row{"Calibration pass", fmt.Sprintf("%.1f%%", s.CalibrationPassPct)})
	t.AppendRow(table.Row{"Reference pass", fmt.Sprintf("%.1f%%", s.ReferencePassPct)})
	t.Render()
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func passMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
