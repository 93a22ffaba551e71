// Package metrics exposes Prometheus metrics for inference runs.
//
// Scans record their totals once they finish, so the hot loop never touches
// a Prometheus collector:
//
//	timer := metrics.NewTimer("scan")
//	// ... scan ...
//	metrics.ObserveScan("sequential", metrics.StatusOK, rows, skipped, timer.Stop())
//
// The command line tool can dump every registered metric to a file in the
// node_exporter textfile format with WriteTextfile.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsScanned counts data rows classified, by scan mode (sequential/parallel).
	RowsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvtype_rows_scanned_total",
			Help: "Total number of data rows classified",
		},
		[]string{"mode"},
	)

	// RowsSkipped counts rows dropped because their field count did not match the header.
	RowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csvtype_rows_skipped_total",
			Help: "Total number of malformed rows skipped",
		},
	)

	// FieldsClassified counts fields by the label they received.
	FieldsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvtype_fields_classified_total",
			Help: "Total number of fields classified, by label",
		},
		[]string{"label"},
	)

	// CacheLookups counts rolling cache lookups by result (hit/miss).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvtype_cache_lookups_total",
			Help: "Total number of rolling cache lookups",
		},
		[]string{"result"},
	)

	// ScanDuration tracks how long complete scans take.
	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "csvtype_scan_duration_seconds",
			Help: "Duration of inference scans in seconds",
			Buckets: []float64{
				0.001, // tiny fixtures
				0.01,
				0.1,
				1,
				10,
				60,
				600, // multi-gigabyte inputs
			},
		},
		[]string{"mode", "status"},
	)

	// OutputConflicts counts types files that already existed and were overwritten.
	OutputConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csvtype_output_conflicts_total",
			Help: "Total number of existing types files overwritten",
		},
	)

	// Throughput is the row rate of the last scan.
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "csvtype_throughput_rows_per_second",
			Help: "Rows per second of the most recent scan",
		},
		[]string{"mode"},
	)

	// ProcessRSS is the resident set size sampled after a scan.
	ProcessRSS = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "csvtype_process_rss_bytes",
			Help: "Resident set size of the process after the last scan",
		},
	)
)

// Scan status label values.
const (
	StatusOK      = "ok"
	StatusAborted = "aborted"
)

// ObserveScan records the totals of one finished scan.
func ObserveScan(mode, status string, rows, skipped uint64, d time.Duration) {
	RowsScanned.WithLabelValues(mode).Add(float64(rows))
	RowsSkipped.Add(float64(skipped))
	ScanDuration.WithLabelValues(mode, status).Observe(d.Seconds())
	if secs := d.Seconds(); secs > 0 {
		Throughput.WithLabelValues(mode).Set(float64(rows) / secs)
	}
}

// ObserveLabels adds per-label field counts.
func ObserveLabels(counts map[string]uint64) {
	for label, n := range counts {
		if n > 0 {
			FieldsClassified.WithLabelValues(label).Add(float64(n))
		}
	}
}

// ObserveCache adds rolling cache lookup counts.
func ObserveCache(hits, misses uint64) {
	CacheLookups.WithLabelValues("hit").Add(float64(hits))
	CacheLookups.WithLabelValues("miss").Add(float64(misses))
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name given to NewTimer.
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It may be called
// more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ProgressTracker counts rows for periodic progress logs. Safe for
// concurrent use.
type ProgressTracker struct {
	mu        sync.Mutex
	count     uint64
	every     uint64
	lastMark  uint64
	startTime time.Time
}

// NewProgressTracker reports a mark every n rows; n == 0 disables marks.
func NewProgressTracker(n uint64) *ProgressTracker {
	return &ProgressTracker{every: n, startTime: time.Now()}
}

// Increment adds n rows and reports whether a progress mark was crossed,
// along with the current row rate.
func (p *ProgressTracker) Increment(n uint64) (bool, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count += n
	if p.every == 0 || p.count-p.lastMark < p.every {
		return false, 0
	}
	p.lastMark = p.count - p.count%p.every
	elapsed := time.Since(p.startTime).Seconds()
	if elapsed == 0 {
		return true, 0
	}
	return true, float64(p.count) / elapsed
}

// Count returns the rows counted so far.
func (p *ProgressTracker) Count() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
