package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// PPMOutput divides corrected values by 1000 so results come out in
	// mg/kg (ppm) instead of the working µg/kg.
	PPMOutput bool `mapstructure:"ppm_output" yaml:"ppm_output"`
	// MDLMultiplier scales the blank standard deviation into the detection
	// limit.
	MDLMultiplier float64 `mapstructure:"mdl_multiplier" yaml:"mdl_multiplier"`

	// QC acceptance bands, percent recovery, inclusive.
	CalBandLow  float64 `mapstructure:"cal_band_low" yaml:"cal_band_low"`
	CalBandHigh float64 `mapstructure:"cal_band_high" yaml:"cal_band_high"`
	RefBandLow  float64 `mapstructure:"ref_band_low" yaml:"ref_band_low"`
	RefBandHigh float64 `mapstructure:"ref_band_high" yaml:"ref_band_high"`

	// OutputDir is where result tables land; empty means next to the export.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.icpqc/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".icpqc")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ICPQC")
	v.AutomaticEnv()

	v.SetDefault("ppm_output", true)
	v.SetDefault("mdl_multiplier", 3.0)
	v.SetDefault("cal_band_low", 90.0)
	v.SetDefault("cal_band_high", 110.0)
	v.SetDefault("ref_band_low", 80.0)
	v.SetDefault("ref_band_high", 120.0)
	v.SetDefault("output_dir", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".icpqc")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Global) validate() error {
	if c.MDLMultiplier <= 0 {
		return fmt.Errorf("mdl_multiplier must be positive, got %g", c.MDLMultiplier)
	}
	if c.CalBandLow >= c.CalBandHigh {
		return fmt.Errorf("cal band [%g, %g] is empty", c.CalBandLow, c.CalBandHigh)
	}
	if c.RefBandLow >= c.RefBandHigh {
		return fmt.Errorf("ref band [%g, %g] is empty", c.RefBandLow, c.RefBandHigh)
	}
	return nil
}
