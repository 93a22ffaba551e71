package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// FixtureSuite provides a context and a scratch directory shared by the
// tests of a suite.
type FixtureSuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	tempDir   string
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *FixtureSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	s.startTime = time.Now()

	tempDir, err := os.MkdirTemp("", "csvtype-test-*")
	require.NoError(s.T(), err)
	s.tempDir = tempDir
}

// TearDownSuite runs after all tests in the suite
func (s *FixtureSuite) TearDownSuite() {
	s.cancel()

	if s.tempDir != "" {
		_ = os.RemoveAll(s.tempDir)
	}

	s.T().Logf("suite completed in %v", time.Since(s.startTime))
}

// Context returns the suite context
func (s *FixtureSuite) Context() context.Context {
	return s.ctx
}

// TempDir returns the scratch directory
func (s *FixtureSuite) TempDir() string {
	return s.tempDir
}

// CreateTempFile creates a file with content in the scratch directory
func (s *FixtureSuite) CreateTempFile(name string, content []byte) string {
	path := filepath.Join(s.tempDir, name)
	require.NoError(s.T(), os.WriteFile(path, content, 0o600))
	return path
}

// IntegrationTest skips the calling test in short mode
func IntegrationTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// generatedValues is a pool of values covering every default type, missing
// values and unclassifiable text.
var generatedValues = []string{
	"42", "-7", "+3", "3.14", "-.5", "abc", "Hello", "true", "yes",
	"12-05-2020", "2020/05/12 10:11:12", "1/2/20", "NA", "", "null",
	"n/a", "hello world", "x1", "#", "1.2.3",
}

// GenerateCSV writes a header plus rows of pseudo-random values drawn from a
// fixed pool, reproducible for a given seed, and returns the path.
func GenerateCSV(t *testing.T, dir string, rows, cols int, delimiter string, seed int64) string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // test data

	var b strings.Builder
	header := make([]string, cols)
	for c := range header {
		header[c] = fmt.Sprintf("col_%d", c+1)
	}
	b.WriteString(strings.Join(header, delimiter))
	b.WriteByte('\n')

	fields := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c := range fields {
			fields[c] = generatedValues[rng.Intn(len(generatedValues))]
		}
		b.WriteString(strings.Join(fields, delimiter))
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, fmt.Sprintf("generated_%d_%dx%d.csv", seed, rows, cols))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}
