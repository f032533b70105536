package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/geochemlab/icpqc/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set icpqc configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("ppm_output: %t\n", cfg.PPMOutput)
		fmt.Printf("mdl_multiplier: %g\n", cfg.MDLMultiplier)
		fmt.Printf("cal_band_low: %g\n", cfg.CalBandLow)
		fmt.Printf("cal_band_high: %g\n", cfg.CalBandHigh)
		fmt.Printf("ref_band_low: %g\n", cfg.RefBandLow)
		fmt.Printf("ref_band_high: %g\n", cfg.RefBandHigh)
		if cfg.OutputDir != "" {
			fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "ppm_output":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for ppm_output: %v", val)
			}
			cfg.PPMOutput = b
		case "mdl_multiplier":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for mdl_multiplier: %v", val)
			}
			cfg.MDLMultiplier = f
		case "cal_band_low", "cal_band_high", "ref_band_low", "ref_band_high":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			switch key {
			case "cal_band_low":
				cfg.CalBandLow = f
			case "cal_band_high":
				cfg.CalBandHigh = f
			case "ref_band_low":
				cfg.RefBandLow = f
			case "ref_band_high":
				cfg.RefBandHigh = f
			}
		case "output_dir":
			cfg.OutputDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Wrote default config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}
