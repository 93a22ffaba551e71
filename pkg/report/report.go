// Package report renders inference results for people and tools.
package report

import (
	"io"
	"strings"

	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/inference"
)

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	// FormatArrow writes the ratio table as an Arrow IPC stream
	FormatArrow Format = "arrow"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatArrow}
}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FormatTable, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeConfig, "unknown report format %q", name)
}

// Summary is everything a finished run reports. Ratios and MostLikely are
// nil when no data rows were classified.
type Summary struct {
	Source     string                 `json:"source" yaml:"source"`
	RunID      string                 `json:"run_id" yaml:"run_id"`
	Columns    []string               `json:"columns" yaml:"columns"`
	Rows       uint64                 `json:"rows" yaml:"rows"`
	Counts     inference.Counts       `json:"counts" yaml:"counts"`
	Ratios     *inference.RatioTable  `json:"ratios,omitempty" yaml:"ratios,omitempty"`
	MostLikely []inference.ColumnType `json:"most_likely,omitempty" yaml:"most_likely,omitempty"`
	Stats      inference.Stats        `json:"stats" yaml:"stats"`
	TypesFile  string                 `json:"types_file,omitempty" yaml:"types_file,omitempty"`
	Warnings   []string               `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FromInferencer builds a Summary from the last successful run of inf.
func FromInferencer(inf *inference.Inferencer) (*Summary, error) {
	res, ok := inf.Result()
	if !ok {
		return nil, errors.New(errors.ErrorTypeInternal, "no inference result to report")
	}

	s := &Summary{
		Source:    res.Source,
		RunID:     res.RunID,
		Columns:   res.Counts.Columns,
		Rows:      res.Rows,
		Counts:    res.Counts,
		Stats:     res.Stats,
		TypesFile: res.TypesFile,
	}
	for _, w := range inf.Warnings() {
		s.Warnings = append(s.Warnings, w.Error())
	}

	ratios, err := inference.Ratios(res.Counts, res.Rows)
	switch {
	case err == nil:
		table := ratios.Table()
		s.Ratios = &table
		s.MostLikely = inference.MostLikelyOrdered(ratios)
	case errors.IsType(err, errors.ErrorTypeDivisionUndefined):
		// header-only input
	default:
		return nil, err
	}
	return s, nil
}

// Render writes s to w in format f.
func Render(w io.Writer, s *Summary, f Format) error {
	switch f {
	case FormatTable, "":
		return renderTable(w, s)
	case FormatJSON:
		return renderJSON(w, s)
	case FormatYAML:
		return renderYAML(w, s)
	case FormatArrow:
		return renderArrow(w, s)
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown report format %q", f)
	}
}
