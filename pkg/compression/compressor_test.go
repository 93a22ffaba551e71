package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	tests := map[string]Algorithm{
		"data.csv":              None,
		"data.csv.gz":           Gzip,
		"data.csv.GZ":           Gzip,
		"data.csv.zst":          Zstd,
		"data.csv.lz4":          LZ4,
		"data.csv.sz":           Snappy,
		"data.csv.s2":           S2,
		"data.csv.xz":           XZ,
		"data.csv.bz2":          Bzip2,
		"s3://bucket/k.csv.zst": Zstd,
		"data.csv.ctypes":       None,
	}
	for p, want := range tests {
		assert.Equal(t, want, FromPath(p), p)
	}
	assert.Equal(t, "data.csv", TrimExtension("data.csv.gz"))
	assert.Equal(t, "data.csv", TrimExtension("data.csv"))
}

func TestParse(t *testing.T) {
	alg, explicit, err := Parse("auto")
	require.NoError(t, err)
	assert.False(t, explicit)
	assert.Equal(t, None, alg)

	alg, explicit, err = Parse("ZSTD")
	require.NoError(t, err)
	assert.True(t, explicit)
	assert.Equal(t, Zstd, alg)

	_, _, err = Parse("rar")
	assert.Error(t, err)
}

func TestStreamRoundTrip(t *testing.T) {
	original := strings.Repeat("col_1;col_2\n1;a\n2;NA\n", 200)

	for _, alg := range []Algorithm{None, Gzip, Zstd, LZ4, Snappy, S2, XZ} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(alg, &buf, level)
				require.NoError(t, err)
				_, err = io.WriteString(w, original)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				r, err := NewReader(alg, &buf)
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())
				assert.Equal(t, original, string(got))
			})
		}
	}
}

func TestBzip2IsReadOnly(t *testing.T) {
	_, err := NewWriter(Bzip2, io.Discard, Default)
	assert.Error(t, err)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewReader("rar", strings.NewReader(""))
	assert.Error(t, err)
	_, err = NewWriter("rar", io.Discard, Default)
	assert.Error(t, err)
}

func TestCorruptGzip(t *testing.T) {
	_, err := NewReader(Gzip, strings.NewReader("not gzip"))
	assert.Error(t, err)
}
