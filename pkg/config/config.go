// Package config defines the options of an inference run. The zero value is
// not useful; start from Default and override what you need:
//
//	cfg := config.Default()
//	cfg.Delimiter = ";"
//	cfg.Multithreading = true
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ajitpratap0/csvtype/pkg/compression"
	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/patterns"
)

// MalformedRowPolicy decides what happens to a row whose field count does
// not match the header.
type MalformedRowPolicy string

const (
	// MalformedRowsSkip logs and skips the row
	MalformedRowsSkip MalformedRowPolicy = "skip"
	// MalformedRowsFail aborts the scan
	MalformedRowsFail MalformedRowPolicy = "fail"
)

// Config holds every option of an inference run.
type Config struct {
	// Delimiter separates fields within a line
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// ColTypePatterns is the ordered pattern set; order is match priority
	ColTypePatterns patterns.PatternSet `yaml:"col_type_patterns" json:"col_type_patterns"`
	// NAValues are literal missing-value markers
	NAValues []string `yaml:"na_values" json:"na_values"`
	// Multithreading classifies the fields of each row concurrently
	Multithreading bool `yaml:"multithreading" json:"multithreading"`
	// SaveTypesFile writes the per-field labels next to the input
	SaveTypesFile bool `yaml:"save_types_file" json:"save_types_file"`
	// TypesFilepath overrides the default <input>.ctypes destination
	TypesFilepath string `yaml:"types_filepath" json:"types_filepath"`
	// RollingCacheWindow is the number of rows a cached classification lives; <= 0 disables the cache
	RollingCacheWindow int `yaml:"rolling_cache_window" json:"rolling_cache_window"`
	// MalformedRows is the policy for rows with the wrong field count
	MalformedRows MalformedRowPolicy `yaml:"malformed_rows" json:"malformed_rows"`
	// MatchTimeout bounds a single pattern match; zero means no limit
	MatchTimeout time.Duration `yaml:"match_timeout" json:"match_timeout"`
	// Compression of the input: auto (by extension) or a codec name
	Compression string `yaml:"compression" json:"compression"`

	// Observability settings for the command line tool
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel      string `yaml:"log_level" json:"log_level"`
	LogFormat     string `yaml:"log_format" json:"log_format"`
	MetricsFile   string `yaml:"metrics_file" json:"metrics_file"`
	EnableTracing bool   `yaml:"enable_tracing" json:"enable_tracing"`
}

// Default returns a configuration with the built-in pattern set and
// missing-value vocabulary.
func Default() *Config {
	return &Config{
		Delimiter:          ",",
		ColTypePatterns:    patterns.Default(),
		NAValues:           patterns.DefaultNAValues(),
		Multithreading:     false,
		SaveTypesFile:      false,
		RollingCacheWindow: 5,
		MalformedRows:      MalformedRowsSkip,
		Compression:        "auto",
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.ColTypePatterns = c.ColTypePatterns.Clone()
	if c.NAValues != nil {
		out.NAValues = append([]string(nil), c.NAValues...)
	}
	return &out
}

// Validate checks the configuration for errors that would make a scan
// meaningless. Pattern syntax is checked when the patterns are compiled.
func (c *Config) Validate() error {
	if c.Delimiter == "" {
		return errors.New(errors.ErrorTypeConfig, "delimiter is required")
	}
	if strings.ContainsAny(c.Delimiter, "\r\n") {
		return errors.New(errors.ErrorTypeConfig, "delimiter cannot contain line breaks")
	}
	if err := c.ColTypePatterns.Validate(); err != nil {
		return err
	}
	switch c.MalformedRows {
	case MalformedRowsSkip, MalformedRowsFail:
	case "":
		c.MalformedRows = MalformedRowsSkip
	default:
		return errors.Newf(errors.ErrorTypeConfig, "malformed_rows must be %q or %q, got %q",
			MalformedRowsSkip, MalformedRowsFail, c.MalformedRows)
	}
	if c.MatchTimeout < 0 {
		return errors.New(errors.ErrorTypeConfig, "match_timeout cannot be negative")
	}
	if _, _, err := compression.Parse(c.Compression); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression")
	}
	return nil
}

// CacheEnabled reports whether the rolling cache is on.
func (c *Config) CacheEnabled() bool {
	return c.RollingCacheWindow > 0
}

// String summarizes the scan options for logs.
func (c *Config) String() string {
	return fmt.Sprintf("delimiter=%q types=%v na_values=%d multithreading=%t cache_window=%d malformed_rows=%s",
		c.Delimiter, c.ColTypePatterns.Names(), len(c.NAValues), c.Multithreading, c.RollingCacheWindow, c.MalformedRows)
}
