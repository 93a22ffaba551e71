package inference_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/inference"
	"github.com/ajitpratap0/csvtype/pkg/testutil"
)

// LargeFileSuite scans generated inputs large enough to cross many cache
// windows and progress marks.
type LargeFileSuite struct {
	testutil.FixtureSuite
	path string
}

func TestLargeFileSuite(t *testing.T) {
	testutil.IntegrationTest(t)
	suite.Run(t, new(LargeFileSuite))
}

func (s *LargeFileSuite) SetupSuite() {
	s.FixtureSuite.SetupSuite()
	s.path = testutil.GenerateCSV(s.T(), s.TempDir(), 20000, 12, "|", 2024)
}

func (s *LargeFileSuite) scan(mutate func(*config.Config)) *inference.Inferencer {
	cfg := config.Default()
	cfg.Delimiter = "|"
	mutate(cfg)

	inf, err := inference.New(s.Context(), s.path, cfg, inference.WithLogger(testutil.TestLogger(s.T())))
	s.Require().NoError(err)
	s.Require().NoError(inf.InferTypes(s.Context()))
	return inf
}

func (s *LargeFileSuite) TestModesAgree() {
	seq := s.scan(func(c *config.Config) {})
	par := s.scan(func(c *config.Config) { c.Multithreading = true })
	nocache := s.scan(func(c *config.Config) {
		c.Multithreading = true
		c.RollingCacheWindow = 0
	})

	s.Equal(uint64(20000), seq.NumRows())
	s.Equal(seq.Counts(), par.Counts())
	s.Equal(seq.Counts(), nocache.Counts())
}

func (s *LargeFileSuite) TestLabelsSpread() {
	inf := s.scan(func(c *config.Config) {})
	totals := inf.Counts().LabelTotals()
	// "true" and "yes" are alpha before they are bool
	for _, label := range []string{"alpha", "float", "int", "date", "NA", "other"} {
		s.Positive(totals[label], "label %s never assigned", label)
	}
	s.Zero(totals["bool"])
}

func (s *LargeFileSuite) TestTypesFileRowCount() {
	out := s.CreateTempFile("large.ctypes", nil)
	inf := s.scan(func(c *config.Config) {
		c.SaveTypesFile = true
		c.TypesFilepath = out
	})

	s.Len(inf.Warnings(), 1)
	res, ok := inf.Result()
	s.Require().True(ok)
	s.Equal(out, res.TypesFile)

	data, err := os.ReadFile(out)
	s.Require().NoError(err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	s.Len(lines, 20001)
	s.Equal(strings.Join(inf.ColNames(), "|"), lines[0])
}
