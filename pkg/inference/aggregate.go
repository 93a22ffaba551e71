package inference

import (
	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// Counts holds, for every column, how many fields received each label.
// Values is indexed [column][label] following Columns and Labels.
type Counts struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Labels  []string   `json:"labels" yaml:"labels"`
	Values  [][]uint64 `json:"values" yaml:"values"`
}

// Get returns the count of label in column, or 0 when either is unknown.
func (c Counts) Get(column, label string) uint64 {
	ci, li := indexOf(c.Columns, column), indexOf(c.Labels, label)
	if ci < 0 || li < 0 {
		return 0
	}
	return c.Values[ci][li]
}

// Map returns the counts keyed by column then label.
func (c Counts) Map() map[string]map[string]uint64 {
	out := make(map[string]map[string]uint64, len(c.Columns))
	for ci, col := range c.Columns {
		m := make(map[string]uint64, len(c.Labels))
		for li, label := range c.Labels {
			m[label] = c.Values[ci][li]
		}
		out[col] = m
	}
	return out
}

// LabelTotals sums every label over all columns.
func (c Counts) LabelTotals() map[string]uint64 {
	out := make(map[string]uint64, len(c.Labels))
	for _, row := range c.Values {
		for li, n := range row {
			out[c.Labels[li]] += n
		}
	}
	return out
}

func (c Counts) clone() Counts {
	values := make([][]uint64, len(c.Values))
	for i, row := range c.Values {
		values[i] = append([]uint64(nil), row...)
	}
	return Counts{
		Columns: append([]string(nil), c.Columns...),
		Labels:  append([]string(nil), c.Labels...),
		Values:  values,
	}
}

// CandidateRatios holds count / rows for every column and label.
// Values is indexed [column][label].
type CandidateRatios struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Labels  []string    `json:"labels" yaml:"labels"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

// Get returns the ratio of label in column, or 0 when either is unknown.
func (r CandidateRatios) Get(column, label string) float64 {
	ci, li := indexOf(r.Columns, column), indexOf(r.Labels, label)
	if ci < 0 || li < 0 {
		return 0
	}
	return r.Values[ci][li]
}

// Map returns the ratios keyed by column then label.
func (r CandidateRatios) Map() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(r.Columns))
	for ci, col := range r.Columns {
		m := make(map[string]float64, len(r.Labels))
		for li, label := range r.Labels {
			m[label] = r.Values[ci][li]
		}
		out[col] = m
	}
	return out
}

// RatioTable is the ratios transposed: one row per label, one column per
// input column.
type RatioTable struct {
	Labels  []string    `json:"labels" yaml:"labels"`
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

// Table returns the label-major view of r.
func (r CandidateRatios) Table() RatioTable {
	values := make([][]float64, len(r.Labels))
	for li := range r.Labels {
		row := make([]float64, len(r.Columns))
		for ci := range r.Columns {
			row[ci] = r.Values[ci][li]
		}
		values[li] = row
	}
	return RatioTable{
		Labels:  append([]string(nil), r.Labels...),
		Columns: append([]string(nil), r.Columns...),
		Values:  values,
	}
}

// Ratios divides every count by rowCount. It fails with
// ErrorTypeDivisionUndefined when no rows were classified.
func Ratios(counts Counts, rowCount uint64) (CandidateRatios, error) {
	if rowCount == 0 {
		return CandidateRatios{}, errors.New(errors.ErrorTypeDivisionUndefined, "no data rows were classified")
	}

	values := make([][]float64, len(counts.Values))
	for ci, row := range counts.Values {
		out := make([]float64, len(row))
		for li, n := range row {
			out[li] = float64(n) / float64(rowCount)
		}
		values[ci] = out
	}
	return CandidateRatios{
		Columns: append([]string(nil), counts.Columns...),
		Labels:  append([]string(nil), counts.Labels...),
		Values:  values,
	}, nil
}

// ColumnType is the most likely label of one column.
type ColumnType struct {
	Column string  `json:"column" yaml:"column"`
	Label  string  `json:"label" yaml:"label"`
	Ratio  float64 `json:"ratio" yaml:"ratio"`
}

// MostLikelyOrdered picks the highest ratio per column, in column order.
// Ties go to the label that comes first in r.Labels.
func MostLikelyOrdered(r CandidateRatios) []ColumnType {
	out := make([]ColumnType, len(r.Columns))
	for ci, col := range r.Columns {
		best := -1
		for li, v := range r.Values[ci] {
			if best < 0 || v > r.Values[ci][best] {
				best = li
			}
		}
		ct := ColumnType{Column: col}
		if best >= 0 {
			ct.Label = r.Labels[best]
			ct.Ratio = r.Values[ci][best]
		}
		out[ci] = ct
	}
	return out
}

// MostLikely maps each column to its most likely label.
func MostLikely(r CandidateRatios) map[string]string {
	ordered := MostLikelyOrdered(r)
	out := make(map[string]string, len(ordered))
	for _, ct := range ordered {
		out[ct.Column] = ct.Label
	}
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
