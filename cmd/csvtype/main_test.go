package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(testutil.TestContext(t))
	return out.String(), err
}

type jsonReport struct {
	Columns    []string `json:"columns"`
	Rows       uint64   `json:"rows"`
	MostLikely []struct {
		Column string  `json:"column"`
		Label  string  `json:"label"`
		Ratio  float64 `json:"ratio"`
	} `json:"most_likely"`
	TypesFile string `json:"types_file"`
}

func inferJSON(t *testing.T, args ...string) jsonReport {
	t.Helper()
	out, err := execute(t, append([]string{"infer", "--format", "json", "--log-level", "error"}, args...)...)
	require.NoError(t, err)

	var r jsonReport
	require.NoError(t, gojson.Unmarshal([]byte(out), &r))
	return r
}

func TestInferDefaults(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "in.csv", "id,name,price", "1,abc,1.5", "2,NA,.25", "3,def,")

	r := inferJSON(t, path)
	assert.Equal(t, []string{"id", "name", "price"}, r.Columns)
	assert.Equal(t, uint64(3), r.Rows)
	require.Len(t, r.MostLikely, 3)
	assert.Equal(t, "int", r.MostLikely[0].Label)
	assert.Equal(t, "alpha", r.MostLikely[1].Label)
	assert.Equal(t, "float", r.MostLikely[2].Label)
}

func TestInferCustomPatterns(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "in.csv", "a;b", "1;x", "2;-", "3;-")

	r := inferJSON(t, path,
		"--delimiter", ";",
		"--pattern", `num=^\d{1,3}$`,
		"--pattern", "word=^[a-z]+$",
		"--na", "-",
		"--multithreading")
	require.Len(t, r.MostLikely, 2)
	assert.Equal(t, "num", r.MostLikely[0].Label)
	assert.Equal(t, 1.0, r.MostLikely[0].Ratio)
	assert.Equal(t, "NA", r.MostLikely[1].Label)
}

func TestInferEnvironmentOverride(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "in.csv", "a|b", "1|2")
	t.Setenv("CSVTYPE_DELIMITER", "|")

	r := inferJSON(t, path)
	assert.Equal(t, []string{"a", "b"}, r.Columns)
}

func TestInferConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "in.csv", "a,b", "1,2", "x,y")
	cfgPath := filepath.Join(dir, "csvtype.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
delimiter: ";"
col_type_patterns:
  letters: ^[a-z]$
  digits: ^\d$
na_values: []
`), 0o600))

	// the file says ";", the flag wins
	r := inferJSON(t, path, "--config", cfgPath, "--delimiter", ",")
	assert.Equal(t, []string{"a", "b"}, r.Columns)
	require.Len(t, r.MostLikely, 2)
	// one letter row and one digit row tie; letters is declared first
	assert.Equal(t, "letters", r.MostLikely[0].Label)
}

func TestInferTypesFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "in.csv", "a", "1", "NA")
	out := filepath.Join(dir, "labels.ctypes")

	r := inferJSON(t, path, "--save-types-file", "--types-filepath", out)
	assert.Equal(t, out, r.TypesFile)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a\nint\nNA\n", string(data))
}

func TestInferMetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "in.csv", "a", "1")
	metricsPath := filepath.Join(dir, "csvtype.prom")

	inferJSON(t, path, "--metrics-file", metricsPath)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "csvtype_rows_scanned_total")
}

func TestInferTableHeaderOnly(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "in.csv", "a,b")
	out, err := execute(t, "infer", "--log-level", "error", path)
	require.NoError(t, err)
	assert.Contains(t, out, "undefined (no data rows)")
}

func TestInferErrors(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "in.csv", "a,b", "1")

	tests := []struct {
		name string
		args []string
		want errors.ErrorType
	}{
		{"missing input", []string{filepath.Join(t.TempDir(), "missing.csv")}, errors.ErrorTypeSourceNotFound},
		{"bad format", []string{"--format", "xml", path}, errors.ErrorTypeConfig},
		{"bad pattern", []string{"--pattern", "x=(", path}, errors.ErrorTypePattern},
		{"bad assignment", []string{"--pattern", "noequals", path}, errors.ErrorTypeConfig},
		{"bad policy", []string{"--malformed-rows", "ignore", path}, errors.ErrorTypeConfig},
		{"malformed row", []string{"--malformed-rows", "fail", path}, errors.ErrorTypeMalformedRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"infer", "--log-level", "error"}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.want), "got %v", err)
		})
	}
}

func TestPatternsCommand(t *testing.T) {
	out, err := execute(t, "patterns")
	require.NoError(t, err)

	var doc struct {
		ColTypePatterns yaml.Node `yaml:"col_type_patterns"`
		NAValues        []string  `yaml:"na_values"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Equal(t, yaml.MappingNode, doc.ColTypePatterns.Kind)
	assert.Equal(t, "alpha", doc.ColTypePatterns.Content[0].Value)
	assert.Equal(t, "float", doc.ColTypePatterns.Content[2].Value)
	assert.Contains(t, doc.NAValues, "NA")
}

func TestPatternsCommandSelectsTypes(t *testing.T) {
	out, err := execute(t, "patterns", "int", "alpha")
	require.NoError(t, err)

	var doc struct {
		ColTypePatterns yaml.Node `yaml:"col_type_patterns"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.ColTypePatterns.Content, 4)
	assert.Equal(t, "int", doc.ColTypePatterns.Content[0].Value)
	assert.Equal(t, "alpha", doc.ColTypePatterns.Content[2].Value)

	_, err = execute(t, "patterns", "money")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), "got %v", err)
}

func TestPatternsCommandOutputIsAConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "patterns.yaml")
	out, err := execute(t, "patterns", "int", "--output", cfgPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	cfg, err := config.LoadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"int"}, cfg.ColTypePatterns.Names())
	assert.Contains(t, cfg.NAValues, "NA")

	input := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(input, []byte("n\n1\nx\n2\n"), 0o644))
	r := inferJSON(t, "--config", cfgPath, input)
	require.Len(t, r.MostLikely, 1)
	assert.Equal(t, "int", r.MostLikely[0].Label)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "csvtype v"+version)
}
