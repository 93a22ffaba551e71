package inference

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/csvtype/pkg/classify"
	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/metrics"
)

const progressEvery = 1_000_000

// rowSink receives the labels of every classified row.
type rowSink interface {
	WriteHeader(columns []string) error
	WriteRow(labels []string) error
}

// scanner classifies every field of one input. A scanner is used for a
// single pass and then discarded.
type scanner struct {
	cfg    *config.Config
	cache  *classify.RollingCache
	labels []string
	index  map[string]int
	sink   rowSink
	logger *zap.Logger

	columns []string
	// cells holds one counter per (column, label), column-major
	cells    []atomic.Uint64
	rows     uint64
	skipped  uint64
	progress *metrics.ProgressTracker
}

func newScanner(cfg *config.Config, c *classify.Classifier, sink rowSink, logger *zap.Logger) *scanner {
	labels := c.Labels()
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return &scanner{
		cfg:      cfg,
		cache:    classify.NewRollingCache(c.Classify, cfg.RollingCacheWindow),
		labels:   labels,
		index:    index,
		sink:     sink,
		logger:   logger,
		progress: metrics.NewProgressTracker(progressEvery),
	}
}

// run reads the header and all data rows from r.
func (s *scanner) run(ctx context.Context, r io.Reader) error {
	br := bufio.NewReaderSize(r, 256*1024)

	header, err := readLine(br)
	if err == io.EOF && header == "" {
		// empty input: no columns, no rows
		s.columns = []string{}
		return s.writeHeader()
	}
	if err != nil && err != io.EOF {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to read header")
	}
	s.columns = resolveHeader(trimEOL(header), s.cfg.Delimiter)
	s.cells = make([]atomic.Uint64, len(s.columns)*len(s.labels))
	if err := s.writeHeader(); err != nil {
		return err
	}
	if err == io.EOF {
		return nil
	}

	rowLabels := make([]string, len(s.columns))
	lineNo := uint64(1)
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeCanceled, "scan canceled").
				WithDetail("line", lineNo)
		}

		line, readErr := readLine(br)
		if readErr != nil && readErr != io.EOF {
			return errors.Wrap(readErr, errors.ErrorTypeFile, "failed to read row").
				WithDetail("line", lineNo+1)
		}
		if readErr == io.EOF && line == "" {
			return nil
		}
		lineNo++

		fields := strings.Split(trimEOL(line), s.cfg.Delimiter)
		if len(fields) != len(s.columns) {
			if err := s.malformed(lineNo, len(fields)); err != nil {
				return err
			}
		} else {
			if err := s.classifyRow(fields, rowLabels); err != nil {
				return err
			}
			if s.sink != nil {
				if err := s.sink.WriteRow(rowLabels); err != nil {
					return err
				}
			}
			s.rows++
			if marked, rate := s.progress.Increment(1); marked {
				s.logger.Debug("scan progress",
					zap.Uint64("rows", s.rows),
					zap.Float64("rows_per_sec", rate))
			}
		}

		if readErr == io.EOF {
			return nil
		}
	}
}

func (s *scanner) writeHeader() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.WriteHeader(s.columns)
}

func (s *scanner) malformed(lineNo uint64, got int) error {
	err := errors.Newf(errors.ErrorTypeMalformedRow, "line %d has %d fields, expected %d", lineNo, got, len(s.columns)).
		WithDetail("line", lineNo)
	if s.cfg.MalformedRows == config.MalformedRowsFail {
		return err
	}
	s.skipped++
	s.logger.Warn("skipping malformed row",
		zap.Uint64("line", lineNo),
		zap.Int("fields", got),
		zap.Int("expected", len(s.columns)))
	return nil
}

// classifyRow labels fields into out and bumps the counters.
func (s *scanner) classifyRow(fields, out []string) error {
	if !s.cfg.Multithreading {
		for col, value := range fields {
			label, err := s.classifyField(col, value)
			if err != nil {
				return err
			}
			out[col] = label
		}
		return nil
	}

	// one goroutine per field, joined before the next row
	var wg sync.WaitGroup
	errs := make([]error, len(fields))
	for col, value := range fields {
		wg.Add(1)
		go func(col int, value string) {
			defer wg.Done()
			label, err := s.classifyField(col, value)
			if err != nil {
				errs[col] = err
				return
			}
			out[col] = label
		}(col, value)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) classifyField(col int, value string) (string, error) {
	label, _, err := s.cache.LookupOrClassify(value, s.rows)
	if err != nil {
		return "", err
	}
	s.cells[col*len(s.labels)+s.index[label]].Add(1)
	return label, nil
}

// counts snapshots the counters.
func (s *scanner) counts() Counts {
	values := make([][]uint64, len(s.columns))
	for ci := range s.columns {
		row := make([]uint64, len(s.labels))
		for li := range s.labels {
			row[li] = s.cells[ci*len(s.labels)+li].Load()
		}
		values[ci] = row
	}
	return Counts{
		Columns: append([]string(nil), s.columns...),
		Labels:  append([]string(nil), s.labels...),
		Values:  values,
	}
}

// readLine returns the next line including its terminator. At the end of
// input it returns the unterminated remainder with io.EOF.
func readLine(br *bufio.Reader) (string, error) {
	return br.ReadString('\n')
}
