package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/csvtype/pkg/errors"
)

func sampleCounts() Counts {
	return Counts{
		Columns: []string{"a", "b"},
		Labels:  []string{"int", "alpha", "NA", "other"},
		Values: [][]uint64{
			{2, 1, 1, 0},
			{0, 2, 2, 0},
		},
	}
}

func TestRatios(t *testing.T) {
	r, err := Ratios(sampleCounts(), 4)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, r.Get("a", "int"), 1e-9)
	assert.InDelta(t, 0.25, r.Get("a", "NA"), 1e-9)
	assert.InDelta(t, 0.5, r.Get("b", "alpha"), 1e-9)
	assert.Zero(t, r.Get("missing", "int"))
	assert.Zero(t, r.Get("a", "missing"))

	for _, row := range r.Values {
		var sum float64
		for _, v := range row {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestRatiosZeroRows(t *testing.T) {
	_, err := Ratios(Counts{Columns: []string{"a"}, Labels: []string{"NA", "other"}, Values: [][]uint64{{0, 0}}}, 0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDivisionUndefined))
}

func TestRatioTableIsLabelMajor(t *testing.T) {
	r, err := Ratios(sampleCounts(), 4)
	require.NoError(t, err)

	table := r.Table()
	assert.Equal(t, []string{"int", "alpha", "NA", "other"}, table.Labels)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	require.Len(t, table.Values, 4)
	assert.Equal(t, []float64{0.5, 0}, table.Values[0])
	assert.Equal(t, []float64{0.25, 0.5}, table.Values[1])
}

func TestMostLikelyTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"single maximum", []float64{0.1, 0.6, 0.2, 0.1}, "alpha"},
		{"type beats later type", []float64{0.4, 0.4, 0.2, 0}, "int"},
		{"type beats NA", []float64{0, 0.5, 0.5, 0}, "alpha"},
		{"NA beats other", []float64{0, 0, 0.5, 0.5}, "NA"},
		{"all equal", []float64{0.25, 0.25, 0.25, 0.25}, "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CandidateRatios{
				Columns: []string{"c"},
				Labels:  []string{"int", "alpha", "NA", "other"},
				Values:  [][]float64{tt.values},
			}
			assert.Equal(t, map[string]string{"c": tt.want}, MostLikely(r))
		})
	}
}

func TestCountsHelpers(t *testing.T) {
	c := sampleCounts()
	assert.Equal(t, uint64(2), c.Get("b", "NA"))
	assert.Equal(t, map[string]uint64{"int": 2, "alpha": 3, "NA": 3, "other": 0}, c.LabelTotals())
	assert.Equal(t, uint64(1), c.Map()["a"]["alpha"])

	cp := c.clone()
	cp.Values[0][0] = 99
	assert.Equal(t, uint64(2), c.Values[0][0])
}
