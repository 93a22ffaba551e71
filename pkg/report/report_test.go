package report

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/inference"
	"github.com/ajitpratap0/csvtype/pkg/patterns"
	"github.com/ajitpratap0/csvtype/pkg/testutil"
)

func summarize(t *testing.T, lines ...string) *Summary {
	t.Helper()
	path := testutil.WriteCSV(t, t.TempDir(), "in.csv", lines...)

	cfg := config.Default()
	cfg.ColTypePatterns = patterns.PatternSet{
		{Name: "int", Patterns: []string{`^\d+$`}},
		{Name: "alpha", Patterns: []string{`^[a-z]+$`}},
	}
	cfg.NAValues = []string{"NA"}

	ctx := testutil.TestContext(t)
	inf, err := inference.New(ctx, path, cfg, inference.WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)
	require.NoError(t, inf.InferTypes(ctx))

	s, err := FromInferencer(inf)
	require.NoError(t, err)
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"arrow", FormatArrow, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromInferencerWithoutRun(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "in.csv", "a", "1")
	inf, err := inference.New(testutil.TestContext(t), path, nil)
	require.NoError(t, err)

	_, err = FromInferencer(inf)
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	s := summarize(t, "n,s", "1,a", "2,NA", "x1,b", "3,c")

	assert.Equal(t, []string{"n", "s"}, s.Columns)
	assert.Equal(t, uint64(4), s.Rows)
	require.NotNil(t, s.Ratios)
	assert.Equal(t, []string{"int", "alpha", "NA", "other"}, s.Ratios.Labels)
	assert.Equal(t, []inference.ColumnType{
		{Column: "n", Label: "int", Ratio: 0.75},
		{Column: "s", Label: "alpha", Ratio: 0.75},
	}, s.MostLikely)
}

func TestRenderTable(t *testing.T) {
	s := summarize(t, "n,s", "1,a", "2,NA")

	var out bytes.Buffer
	require.NoError(t, Render(&out, s, FormatTable))
	text := out.String()

	assert.Contains(t, text, "rows:")
	assert.Regexp(t, `int\s+1\.0000\s+0\.0000`, text)
	assert.Regexp(t, `NA\s+0\.0000\s+0\.5000`, text)
	assert.Regexp(t, `s\s+alpha\s+0\.5000`, text)
}

func TestRenderTableHeaderOnly(t *testing.T) {
	s := summarize(t, "a,b")
	assert.Nil(t, s.Ratios)

	var out bytes.Buffer
	require.NoError(t, Render(&out, s, FormatTable))
	assert.Contains(t, out.String(), "undefined (no data rows)")
	assert.Contains(t, out.String(), "a, b")
}

func TestRenderJSON(t *testing.T) {
	s := summarize(t, "n,s", "1,a", "2,NA")

	var out bytes.Buffer
	require.NoError(t, Render(&out, s, FormatJSON))

	var decoded struct {
		Rows       uint64 `json:"rows"`
		MostLikely []struct {
			Column string `json:"column"`
			Label  string `json:"label"`
		} `json:"most_likely"`
		Ratios struct {
			Labels []string    `json:"labels"`
			Values [][]float64 `json:"values"`
		} `json:"ratios"`
	}
	require.NoError(t, gojson.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, uint64(2), decoded.Rows)
	require.Len(t, decoded.MostLikely, 2)
	assert.Equal(t, "int", decoded.MostLikely[0].Label)
	assert.Equal(t, []float64{0, 0.5}, decoded.Ratios.Values[2])
}

func TestRenderYAML(t *testing.T) {
	s := summarize(t, "n,s", "1,a", "2,NA")

	var out bytes.Buffer
	require.NoError(t, Render(&out, s, FormatYAML))

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, s.MostLikely, decoded.MostLikely)
	assert.Equal(t, s.Counts, decoded.Counts)
}

func TestRenderArrow(t *testing.T) {
	s := summarize(t, "n,s", "1,a", "2,NA", "3,b", "4,c")

	var out bytes.Buffer
	require.NoError(t, Render(&out, s, FormatArrow))

	rdr, err := ipc.NewReader(&out, ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer rdr.Release()

	fields := rdr.Schema().Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, LabelField, fields[0].Name)
	assert.Equal(t, "n", fields[1].Name)
	assert.Equal(t, "s", fields[2].Name)

	require.True(t, rdr.Next())
	rec := rdr.Record()
	require.Equal(t, int64(4), rec.NumRows())

	labels := rec.Column(0).(*array.String)
	assert.Equal(t, "int", labels.Value(0))
	assert.Equal(t, "other", labels.Value(3))

	n := rec.Column(1).(*array.Float64)
	assert.Equal(t, 1.0, n.Value(0))
	alpha := rec.Column(2).(*array.Float64)
	assert.Equal(t, 0.75, alpha.Value(1))
	assert.Equal(t, 0.25, alpha.Value(2))

	assert.False(t, rdr.Next())
}

func TestRenderArrowHeaderOnly(t *testing.T) {
	s := summarize(t, "a,b")

	var out bytes.Buffer
	require.NoError(t, Render(&out, s, FormatArrow))

	rdr, err := ipc.NewReader(&out)
	require.NoError(t, err)
	defer rdr.Release()
	assert.Len(t, rdr.Schema().Fields(), 3)
	require.True(t, rdr.Next())
	assert.Zero(t, rdr.Record().NumRows())
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, &Summary{}, Format("xml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
