package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/geochemlab/icpqc/internal/pipeline"
	"github.com/geochemlab/icpqc/internal/report"
	"github.com/geochemlab/icpqc/internal/table"
)

var (
	procDilution string
	procTargets  string
	procRef      string
	procOut      string
	procPPM      bool
	procMDLMult  float64
)

var processCmd = &cobra.Command{
	Use:   "process <export>",
	Short: "Blank-correct an instrument export and run the QC checks",
	Long: `Process reads a concentration export (CSV, TSV or XLSX) together with a
dilution-factor table and calibration targets, subtracts mean blank signal,
applies dilution factors, flags below-detection results and selects the best
acquisition channel per element. Results and a run manifest are written to
the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exportPath := args[0]

		tbl, loadWarnings, err := table.LoadInstrumentExport(exportPath)
		if err != nil {
			return fmt.Errorf("load export: %w", err)
		}
		for _, w := range loadWarnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}

		dilution, err := table.LoadDilutionTable(procDilution)
		if err != nil {
			return fmt.Errorf("load dilution table: %w", err)
		}
		targets, err := table.LoadCalibrationTargets(procTargets)
		if err != nil {
			return fmt.Errorf("load calibration targets: %w", err)
		}
		var refs *table.RefValues
		if procRef != "" {
			rv, err := table.LoadReferenceValues(procRef)
			if err != nil {
				return fmt.Errorf("load reference values: %w", err)
			}
			refs = &rv
		}

		res, err := pipeline.Run(pipeline.Inputs{
			Export:    tbl,
			Dilution:  dilution,
			Targets:   targets,
			RefValues: refs,
		}, processOptions(cmd))
		if err != nil {
			return err
		}

		outDir := procOut
		if outDir == "" && cfg != nil && cfg.OutputDir != "" {
			outDir = cfg.OutputDir
		}
		if outDir == "" {
			outDir = "icpqc_out"
		}

		man := report.Manifest{
			RunID:               res.RunID,
			GeneratedAt:         time.Now().UTC().Format(time.RFC3339),
			ExportFile:          exportPath,
			DilutionFile:        procDilution,
			TargetsFile:         procTargets,
			RefFile:             procRef,
			PPMOutput:           procPPM,
			Samples:             res.Summary.Samples,
			Blanks:              res.Summary.Blanks,
			CalVerifications:    res.Summary.CalVerifications,
			ReferenceReplicates: res.Summary.ReferenceReplicates,
			ElementsAnalyzed:    res.Summary.ElementsAnalyzed,
			CalibrationPassPct:  res.Summary.CalibrationPassPct,
			ReferencePassPct:    res.Summary.ReferencePassPct,
			Unmatched:           res.Unmatched,
			Warnings:            res.Warnings,
		}
		if err := report.Write(outDir, res, man); err != nil {
			return err
		}

		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}
		if len(res.Unmatched) > 0 {
			fmt.Fprintf(os.Stderr, "⚠ %d sample(s) missing a dilution factor (default 1.0 applied): %v\n",
				len(res.Unmatched), res.Unmatched)
		}

		fmt.Printf("✓ Run %s complete\n\n", res.RunID)
		report.RenderRunSummary(os.Stdout, res)
		fmt.Println()
		report.RenderQCSummary(os.Stdout, res.Selections)
		fmt.Printf("\n✓ Wrote results to %s\n", outDir)
		return nil
	},
}

// processOptions builds pipeline options from config with flag overrides.
func processOptions(cmd *cobra.Command) pipeline.Options {
	opts := pipeline.Options{PPMOutput: procPPM, MDLMultiplier: procMDLMult}
	if cfg != nil {
		if !cmd.Flags().Changed("ppm") {
			opts.PPMOutput = cfg.PPMOutput
			procPPM = cfg.PPMOutput
		}
		if !cmd.Flags().Changed("mdl-multiplier") {
			opts.MDLMultiplier = cfg.MDLMultiplier
		}
		opts.CalibrationBand = pipeline.Band{Lo: cfg.CalBandLow, Hi: cfg.CalBandHigh}
		opts.ReferenceBand = pipeline.Band{Lo: cfg.RefBandLow, Hi: cfg.RefBandHigh}
	}
	return opts
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVarP(&procDilution, "dilution", "d", "", "dilution-factor table (sample_id, df)")
	processCmd.Flags().StringVarP(&procTargets, "targets", "t", "", "calibration target table (element, cal_target[, ref_target])")
	processCmd.Flags().StringVarP(&procRef, "ref", "r", "", "optional certified reference-value table")
	processCmd.Flags().StringVarP(&procOut, "out", "o", "", "output directory (default from config, else icpqc_out)")
	processCmd.Flags().BoolVar(&procPPM, "ppm", true, "report corrected values in mg/kg instead of µg/kg")
	processCmd.Flags().Float64Var(&procMDLMult, "mdl-multiplier", 3, "detection limit multiplier applied to blank SD")
	_ = processCmd.MarkFlagRequired("dilution")
	_ = processCmd.MarkFlagRequired("targets")
}
