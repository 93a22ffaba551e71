package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/inference"
	"github.com/ajitpratap0/csvtype/pkg/logger"
	"github.com/ajitpratap0/csvtype/pkg/metrics"
	"github.com/ajitpratap0/csvtype/pkg/observability"
	"github.com/ajitpratap0/csvtype/pkg/patterns"
	"github.com/ajitpratap0/csvtype/pkg/report"
)

// envPrefix namespaces environment overrides, e.g. CSVTYPE_DELIMITER.
const envPrefix = "CSVTYPE"

func newInferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infer <path|s3://bucket/key|gs://bucket/object>",
		Short: "Infer column types of a delimited file",
		Long: `Scan the input once and print per-column label ratios and the most
likely label of every column.

Settings are layered: built-in defaults, then --config, then CSVTYPE_*
environment variables, then flags given on the command line.

Example:
  csvtype infer data.csv --delimiter ';' --multithreading
  csvtype infer data.csv --pattern 'int=^\d+$' --pattern 'word=^\w+$' --na NA --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, args[0])
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.String("delimiter", d.Delimiter, "Field delimiter")
	f.Bool("multithreading", d.Multithreading, "Classify the fields of each row concurrently")
	f.Bool("save-types-file", d.SaveTypesFile, "Write the label of every field to a types file")
	f.String("types-filepath", "", "Types file destination (default <input>.ctypes)")
	f.Int("rolling-cache-window", d.RollingCacheWindow, "Rows a cached classification stays valid; 0 disables the cache")
	f.String("malformed-rows", string(d.MalformedRows), "Rows with the wrong number of fields: skip or fail")
	f.Duration("match-timeout", 0, "Limit for a single pattern match (0 means none)")
	f.String("compression", d.Compression, "Input compression: auto, none, gzip, zstd, snappy, s2, lz4, xz, bzip2")
	f.StringArray("pattern", nil, "Type pattern as name=regex; repeatable, in priority order; replaces the defaults")
	f.StringArray("na", nil, "Missing-value marker; repeatable; replaces the defaults")
	f.String("format", string(report.FormatTable), "Report format: table, json, yaml, arrow")
	f.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	f.Bool("trace", false, "Export a trace of the run to stderr")
	return cmd
}

func runInfer(cmd *cobra.Command, uri string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := loadConfig(v, cmd.Flags())
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogFormat,
	})
	if err != nil {
		return err
	}
	logger.Set(log)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultConfig()
		tc.ServiceVersion = version
		tc.Writer = cmd.ErrOrStderr()
		if err := observability.Initialize(tc); err != nil {
			return err
		}
		defer func() {
			if err := observability.Shutdown(context.Background()); err != nil {
				log.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}

	inf, err := inference.New(ctx, uri, cfg, inference.WithLogger(log))
	if err != nil {
		return err
	}
	runErr := inf.InferTypes(ctx)

	if path := cfg.Observability.MetricsFile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			log.Warn("failed to write metrics file", zap.String("path", path), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	summary, err := report.FromInferencer(inf)
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), summary, format)
}

// loadConfig layers defaults, the --config file and the overrides set in v.
// Pattern and NA lists only come from the file or the command line: a
// regex may contain commas, which viper would split on.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet("delimiter") {
		cfg.Delimiter = v.GetString("delimiter")
	}
	if v.IsSet("multithreading") {
		cfg.Multithreading = v.GetBool("multithreading")
	}
	if v.IsSet("save-types-file") {
		cfg.SaveTypesFile = v.GetBool("save-types-file")
	}
	if v.IsSet("types-filepath") {
		cfg.TypesFilepath = v.GetString("types-filepath")
	}
	if v.IsSet("rolling-cache-window") {
		cfg.RollingCacheWindow = v.GetInt("rolling-cache-window")
	}
	if v.IsSet("malformed-rows") {
		cfg.MalformedRows = config.MalformedRowPolicy(v.GetString("malformed-rows"))
	}
	if v.IsSet("match-timeout") {
		cfg.MatchTimeout = v.GetDuration("match-timeout")
	}
	if v.IsSet("compression") {
		cfg.Compression = v.GetString("compression")
	}
	if v.IsSet("log-level") {
		cfg.Observability.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("log-format") {
		cfg.Observability.LogFormat = v.GetString("log-format")
	}
	if v.IsSet("metrics-file") {
		cfg.Observability.MetricsFile = v.GetString("metrics-file")
	}
	if v.IsSet("trace") {
		cfg.Observability.EnableTracing = v.GetBool("trace")
	}

	if flags.Changed("pattern") {
		assignments, err := flags.GetStringArray("pattern")
		if err != nil {
			return nil, err
		}
		set, err := patterns.ParseAssignments(assignments)
		if err != nil {
			return nil, err
		}
		cfg.ColTypePatterns = set
	}
	if flags.Changed("na") {
		na, err := flags.GetStringArray("na")
		if err != nil {
			return nil, err
		}
		cfg.NAValues = na
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
