// Package inference scans a delimited file and reports, for every column,
// how often each type label occurs and which label is most likely.
//
// Basic usage:
//
//	inf, err := inference.New(ctx, "data.csv", config.Default())
//	if err != nil {
//	    return err // errors.ErrorTypeSourceNotFound when the file is missing
//	}
//	if err := inf.InferTypes(ctx); err != nil {
//	    return err
//	}
//	types, err := inf.MostLikelyColTypes()
//
// Every field is classified as a missing value (NA), as the first type of the
// configured pattern set whose patterns match, or as other. Ties between
// labels are broken in the order: pattern set order, NA, other.
package inference

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/csvtype/pkg/classify"
	"github.com/ajitpratap0/csvtype/pkg/compression"
	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/logger"
	"github.com/ajitpratap0/csvtype/pkg/metrics"
	"github.com/ajitpratap0/csvtype/pkg/observability"
	"github.com/ajitpratap0/csvtype/pkg/source"
	"github.com/ajitpratap0/csvtype/pkg/typesfile"
)

// Stats describes how a scan went.
type Stats struct {
	SkippedRows uint64        `json:"skipped_rows" yaml:"skipped_rows"`
	CacheHits   uint64        `json:"cache_hits" yaml:"cache_hits"`
	CacheMisses uint64        `json:"cache_misses" yaml:"cache_misses"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Parallel    bool          `json:"parallel" yaml:"parallel"`
}

// Result is the outcome of one successful scan.
type Result struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Source    string `json:"source" yaml:"source"`
	Rows      uint64 `json:"rows" yaml:"rows"`
	Counts    Counts `json:"counts" yaml:"counts"`
	Stats     Stats  `json:"stats" yaml:"stats"`
	TypesFile string `json:"types_file,omitempty" yaml:"types_file,omitempty"`
}

// Option configures an Inferencer.
type Option func(*Inferencer)

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(inf *Inferencer) {
		inf.logger = l
	}
}

// WithResolver sets how inputs are located and opened.
func WithResolver(r *source.Resolver) Option {
	return func(inf *Inferencer) {
		inf.resolver = r
	}
}

// Inferencer runs type inference over one input. Its methods are safe for
// concurrent use; scans are serialized.
type Inferencer struct {
	runMu sync.Mutex

	mu         sync.RWMutex
	uri        string
	loc        source.Location
	cfg        *config.Config
	classifier *classify.Classifier
	resolver   *source.Resolver
	logger     *zap.Logger
	result     *Result
	warnings   []error
}

// New validates cfg, compiles its patterns and checks that uri exists. A
// missing input fails here with ErrorTypeSourceNotFound. A nil cfg means
// config.Default().
func New(ctx context.Context, uri string, cfg *config.Config, opts ...Option) (*Inferencer, error) {
	inf := &Inferencer{}
	for _, opt := range opts {
		opt(inf)
	}
	if inf.resolver == nil {
		inf.resolver = source.Default()
	}
	if inf.logger == nil {
		inf.logger = logger.Get()
	}

	if err := inf.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err := inf.SetSource(ctx, uri); err != nil {
		return nil, err
	}
	return inf, nil
}

// SetConfig replaces the configuration used by the next scan and clears
// the previous results.
func (inf *Inferencer) SetConfig(cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return err
	}
	c, err := classify.New(cfg.ColTypePatterns, cfg.NAValues, classify.WithMatchTimeout(cfg.MatchTimeout))
	if err != nil {
		return err
	}

	inf.runMu.Lock()
	defer inf.runMu.Unlock()
	inf.mu.Lock()
	defer inf.mu.Unlock()
	inf.cfg = cfg
	inf.classifier = c
	inf.result = nil
	inf.warnings = nil
	return nil
}

// Config returns a copy of the current configuration.
func (inf *Inferencer) Config() *config.Config {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	return inf.cfg.Clone()
}

// SetSource points the inferencer at another input, failing fast when it
// does not exist, and clears the previous results.
func (inf *Inferencer) SetSource(ctx context.Context, uri string) error {
	if _, err := inf.resolver.Stat(ctx, uri); err != nil {
		return err
	}
	loc, err := source.Parse(uri)
	if err != nil {
		return err
	}

	inf.runMu.Lock()
	defer inf.runMu.Unlock()
	inf.mu.Lock()
	defer inf.mu.Unlock()
	inf.uri = uri
	inf.loc = loc
	inf.result = nil
	inf.warnings = nil
	return nil
}

// Source returns the input URI.
func (inf *Inferencer) Source() string {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	return inf.uri
}

// TypesFilepath returns where the types file is written when enabled.
func (inf *Inferencer) TypesFilepath() string {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	return inf.typesFilepathLocked()
}

func (inf *Inferencer) typesFilepathLocked() string {
	if inf.cfg.TypesFilepath != "" {
		return inf.cfg.TypesFilepath
	}
	return typesfile.DefaultPath(inf.loc)
}

// NumCols reads only the header and returns the number of columns.
func (inf *Inferencer) NumCols(ctx context.Context) (int, error) {
	inf.mu.RLock()
	uri, cfg := inf.uri, inf.cfg
	inf.mu.RUnlock()

	rc, err := inf.open(ctx, uri, cfg)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	header, err := readLine(bufio.NewReader(rc))
	if err != nil && err != io.EOF {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to read header")
	}
	if header == "" {
		return 0, nil
	}
	return len(resolveHeader(trimEOL(header), cfg.Delimiter)), nil
}

func (inf *Inferencer) open(ctx context.Context, uri string, cfg *config.Config) (io.ReadCloser, error) {
	alg, explicit, err := compression.Parse(cfg.Compression)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression")
	}
	return inf.resolver.Open(ctx, uri, alg, !explicit)
}

// InferTypes scans the whole input. Previous results are discarded first;
// if the scan fails no results are kept.
func (inf *Inferencer) InferTypes(ctx context.Context) (err error) {
	inf.runMu.Lock()
	defer inf.runMu.Unlock()

	inf.mu.Lock()
	uri, cfg, classifier := inf.uri, inf.cfg, inf.classifier
	typesPath := inf.typesFilepathLocked()
	inf.result = nil
	inf.warnings = nil
	inf.mu.Unlock()

	runID := uuid.NewString()
	ctx = logger.ContextWithRun(ctx, runID, uri)
	log := logger.WithContext(ctx, inf.logger)

	ctx, span := observability.NewSpan(ctx, "csvtype.infer_types")
	span.SetAttribute("source", uri)
	span.SetAttribute("run_id", runID)
	span.SetAttribute("parallel", cfg.Multithreading)
	span.SetAttribute("cache_window", cfg.RollingCacheWindow)
	span.SetAttribute("cache_enabled", cfg.CacheEnabled())

	mode := scanMode(cfg.Multithreading)
	timer := metrics.NewTimer("infer_types")
	var sc *scanner
	defer func() {
		elapsed := timer.Stop()
		if err != nil {
			var rows, skipped uint64
			if sc != nil {
				rows, skipped = sc.rows, sc.skipped
			}
			metrics.ObserveScan(mode, metrics.StatusAborted, rows, skipped, elapsed)
			log.Error("type inference aborted", zap.Error(err), zap.Duration("elapsed", elapsed))
		}
		span.Finish(err)
	}()

	log.Info("type inference started",
		zap.String("config", cfg.String()),
		zap.Bool("cache_enabled", cfg.CacheEnabled()))

	rc, err := inf.open(ctx, uri, cfg)
	if err != nil {
		return err
	}
	defer rc.Close()

	var warnings []error
	var out *typesfile.Writer
	var sink rowSink
	if cfg.SaveTypesFile {
		out, err = typesfile.Create(typesPath, cfg.Delimiter)
		if err != nil {
			return err
		}
		if conflict := out.Conflict(); conflict != nil {
			metrics.OutputConflicts.Inc()
			log.Warn("types file already exists and will be overwritten", zap.String("path", typesPath))
			span.AddEvent("types_file_conflict", attribute.String("path", typesPath))
			warnings = append(warnings, conflict)
		}
		sink = out
	}

	sc = newScanner(cfg, classifier, sink, log)
	if err = sc.run(ctx, rc); err != nil {
		if out != nil {
			out.Abort()
		}
		return err
	}
	if out != nil {
		if err = out.Close(); err != nil {
			return err
		}
	}

	elapsed := timer.Stop()
	cacheStats := sc.cache.Stats()
	result := &Result{
		RunID:  runID,
		Source: uri,
		Rows:   sc.rows,
		Counts: sc.counts(),
		Stats: Stats{
			SkippedRows: sc.skipped,
			CacheHits:   cacheStats.Hits,
			CacheMisses: cacheStats.Misses,
			Duration:    elapsed,
			Parallel:    cfg.Multithreading,
		},
	}
	if out != nil {
		result.TypesFile = out.Path()
	}

	inf.mu.Lock()
	inf.result = result
	inf.warnings = warnings
	inf.mu.Unlock()

	metrics.ObserveScan(mode, metrics.StatusOK, result.Rows, result.Stats.SkippedRows, elapsed)
	metrics.ObserveLabels(result.Counts.LabelTotals())
	metrics.ObserveCache(cacheStats.Hits, cacheStats.Misses)
	if usage, rerr := metrics.SampleResources(); rerr == nil {
		log.Debug("resource usage", zap.Uint64("rss_bytes", usage.RSSBytes), zap.Float64("cpu_seconds", usage.CPUSeconds))
	}

	span.SetAttribute("rows", result.Rows)
	span.SetAttribute("columns", len(result.Counts.Columns))
	span.SetAttribute("skipped_rows", result.Stats.SkippedRows)

	log.Info("type inference finished",
		zap.Int("columns", len(result.Counts.Columns)),
		zap.Uint64("rows", result.Rows),
		zap.Uint64("skipped_rows", result.Stats.SkippedRows),
		zap.Uint64("cache_hits", cacheStats.Hits),
		zap.Int("cache_entries", sc.cache.Len()),
		zap.Duration("elapsed", elapsed))
	return nil
}

func scanMode(parallel bool) string {
	if parallel {
		return "parallel"
	}
	return "sequential"
}

// Result returns the last successful scan, if any.
func (inf *Inferencer) Result() (*Result, bool) {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	if inf.result == nil {
		return nil, false
	}
	r := *inf.result
	r.Counts = inf.result.Counts.clone()
	return &r, true
}

// Warnings returns the non-fatal conditions of the last scan.
func (inf *Inferencer) Warnings() []error {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	return append([]error(nil), inf.warnings...)
}

// ColNames returns the resolved column names of the last scan.
func (inf *Inferencer) ColNames() []string {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	if inf.result == nil {
		return nil
	}
	return append([]string(nil), inf.result.Counts.Columns...)
}

// NumRows returns the number of data rows classified by the last scan.
func (inf *Inferencer) NumRows() uint64 {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	if inf.result == nil {
		return 0
	}
	return inf.result.Rows
}

// Counts returns the raw label counts of the last scan.
func (inf *Inferencer) Counts() Counts {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	if inf.result == nil {
		return Counts{Labels: inf.classifier.Labels()}
	}
	return inf.result.Counts.clone()
}

// CandidateRatios returns count / rows for every column and label. It
// fails with ErrorTypeDivisionUndefined when no rows were classified.
func (inf *Inferencer) CandidateRatios() (CandidateRatios, error) {
	inf.mu.RLock()
	defer inf.mu.RUnlock()
	if inf.result == nil {
		return CandidateRatios{}, errors.New(errors.ErrorTypeDivisionUndefined, "no data rows were classified")
	}
	return Ratios(inf.result.Counts, inf.result.Rows)
}

// RatioTable returns the ratios with one row per label.
func (inf *Inferencer) RatioTable() (RatioTable, error) {
	r, err := inf.CandidateRatios()
	if err != nil {
		return RatioTable{}, err
	}
	return r.Table(), nil
}

// MostLikelyColTypes maps every column to its most frequent label.
func (inf *Inferencer) MostLikelyColTypes() (map[string]string, error) {
	r, err := inf.CandidateRatios()
	if err != nil {
		return nil, err
	}
	return MostLikely(r), nil
}

// MostLikelyOrdered is MostLikelyColTypes in column order, with ratios.
func (inf *Inferencer) MostLikelyOrdered() ([]ColumnType, error) {
	r, err := inf.CandidateRatios()
	if err != nil {
		return nil, err
	}
	return MostLikelyOrdered(r), nil
}
