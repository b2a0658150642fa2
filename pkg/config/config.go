// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"github.com/user/vpxconform/pkg/harness"
	"github.com/user/vpxconform/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for vpxconform.
type Config struct {
	// Assets checked by --all, in order
	Assets []string `yaml:"assets"`

	// Harness
	Threads      int    `yaml:"threads"`
	Mode         string `yaml:"mode"`
	TrailingData string `yaml:"trailing_data"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Report output
	Report ReportConfig `yaml:"report"`
}

// ReportConfig selects where and how the structured report is written.
type ReportConfig struct {
	// Path is the destination file. Empty disables the report; "-" streams
	// records to stdout.
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// DefaultAssets is the fixed conformance set used by --all.
var DefaultAssets = []string{
	"videos/vp9_320x240_30fps.ivf",
	"videos/vp9_64x64_tiny.ivf",
	"videos/vp9_720p.ivf",
	"videos/vp9_odd_dimensions.ivf",
	"videos/vp9_high_quality.ivf",
	"videos/vp9_low_quality.ivf",
	"videos/vp9_single_frame.ivf",
	"videos/vp9_60fps.ivf",
	"videos/vp8_320x240_30fps.ivf",
	"videos/vp8_640x480.ivf",
	"videos/vp9_colorbars.ivf",
	"videos/vp9_solid_blue.ivf",
	"videos/vp9_noise.ivf",
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Assets: append([]string(nil), DefaultAssets...),

		Threads:      4,
		Mode:         string(harness.ModeDecode),
		TrailingData: string(harness.TrailingWarn),

		LogLevel:  "info",
		LogFormat: "console",

		Report: ReportConfig{
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	switch harness.Mode(c.Mode) {
	case harness.ModeDecode, harness.ModeFormat, harness.ModeRead:
	default:
		return fmt.Errorf("unknown mode %q (want decode, format or read)", c.Mode)
	}
	switch harness.TrailingPolicy(c.TrailingData) {
	case harness.TrailingIgnore, harness.TrailingWarn, harness.TrailingFail:
	default:
		return fmt.Errorf("unknown trailing_data policy %q (want ignore, warn or fail)", c.TrailingData)
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want console or json)", c.LogFormat)
	}
	switch c.Report.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown report format %q (want text or json)", c.Report.Format)
	}
	return nil
}

// HarnessOptions converts Config to harness.Options.
func (c Config) HarnessOptions(runID string) harness.Options {
	return harness.Options{
		Mode:     harness.Mode(c.Mode),
		Threads:  c.Threads,
		Trailing: harness.TrailingPolicy(c.TrailingData),
		RunID:    runID,
	}
}
