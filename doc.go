// Package csvtype infers the most likely type of every column of a
// delimited text file in a single streaming pass.
//
// Every field is given exactly one label: NA when it is a configured
// missing-value marker, otherwise the name of the first type in the
// ordered pattern set whose regular expressions match the whole value,
// otherwise "other". Per-column label counts are turned into ratios and
// the label with the highest ratio is the column's most likely type.
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.Delimiter = ";"
//
//	inf, err := inference.New(ctx, "data.csv", cfg)
//	if err != nil {
//	    return err
//	}
//	if err := inf.InferTypes(ctx); err != nil {
//	    return err
//	}
//	types, err := inf.MostLikelyColTypes()
//
// # Packages
//
//   - pkg/inference: scanner, aggregation and the Inferencer API
//   - pkg/patterns: ordered pattern sets and the missing-value vocabulary
//   - pkg/classify: field classifier and the rolling classification cache
//   - pkg/source: local, S3 and GCS inputs with transparent decompression
//   - pkg/typesfile: the optional per-field label file
//   - pkg/report: table, JSON, YAML and Arrow renderings of a run
//   - pkg/config, pkg/logger, pkg/metrics, pkg/observability: configuration,
//     zap logging, Prometheus metrics and OpenTelemetry tracing
//
// The csvtype command in cmd/csvtype wraps all of this:
//
//	csvtype infer data.csv --delimiter ';' --multithreading --format json
package csvtype
