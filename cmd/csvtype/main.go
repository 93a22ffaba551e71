package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/patterns"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "csvtype",
		Short: "Infer the most likely type of every column in a delimited file",
		Long: `csvtype scans a delimited text file once and reports, for every column,
how often each type label occurs. A field is labelled NA when it is a
missing-value marker, otherwise with the first type whose patterns match,
otherwise "other".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "Log encoding (console, json)")

	root.AddCommand(
		newInferCmd(),
		newPatternsCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "csvtype v%s\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
				fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
	)
	return root
}

func newPatternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns [type...]",
		Short: "Print the pattern set and missing-value vocabulary",
		Long: `Print the type patterns in priority order and the missing-value
vocabulary, taken from --config when given and the built-in defaults
otherwise. Naming types restricts the output to those groups, in the order
given. The output is valid configuration YAML; --output writes it to a file
that can be passed back through --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				loaded, err := config.LoadFile(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			set := cfg.ColTypePatterns
			if len(args) > 0 {
				set = make(patterns.PatternSet, 0, len(args))
				for _, name := range args {
					ps, ok := cfg.ColTypePatterns.Lookup(name)
					if !ok {
						return errors.Newf(errors.ErrorTypeConfig, "unknown type %q", name).
							WithDetail("types", cfg.ColTypePatterns.Names())
					}
					set = append(set, patterns.Group{Name: name, Patterns: ps})
				}
			}

			doc := struct {
				ColTypePatterns patterns.PatternSet `yaml:"col_type_patterns"`
				NAValues        []string            `yaml:"na_values"`
			}{set, cfg.NAValues}

			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := config.Save(path, doc); err != nil {
					return errors.Wrap(err, errors.ErrorTypeFile, "failed to write pattern file").
						WithDetail("path", path)
				}
				return nil
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the YAML to this file instead of stdout")
	return cmd
}
