package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHeader(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		delimiter string
		want      []string
	}{
		{"plain", "id,name", ",", []string{"id", "name"}},
		{"unnamed cell", "a,b,,d", ",", []string{"a", "b", "Untitled_2", "d"}},
		{"unnamed first", ";x", ";", []string{"Untitled_0", "x"}},
		{"duplicates", "a,a,b,a", ",", []string{"a", "a_1", "b", "a_3"}},
		{"byte order mark", "\ufeffid,name", ",", []string{"id", "name"}},
		{"multi-byte delimiter", "a||b", "||", []string{"a", "b"}},
		{"single column", "value", ",", []string{"value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveHeader(tt.line, tt.delimiter))
		})
	}
}

func TestTrimEOL(t *testing.T) {
	assert.Equal(t, "a,b", trimEOL("a,b\r\n"))
	assert.Equal(t, "a,b", trimEOL("a,b\n"))
	assert.Equal(t, "a,b", trimEOL("a,b"))
	assert.Equal(t, "a\r,b", trimEOL("a\r,b"))
}
