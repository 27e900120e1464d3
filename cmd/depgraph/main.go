// Package main provides the depgraph binary entry point.
// Depgraph turns raw text into typed dependency parses using an external
// annotation engine and serializes them for downstream graph tooling.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	// Register annotation providers via init()
	_ "github.com/c360studio/depgraph/engine/providers"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "depgraph"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &appOptions{}

	cmd := &cobra.Command{
		Use:   "depgraph [max-length]",
		Short: "Dependency parse extraction pipeline",
		Long: `Depgraph reads text from stdin one line at a time, splits each line
into sentences, parses them with an external annotation engine, and
writes one JSON array of dependency parses per input line.

Sentences shorter than 5 tokens are skipped. The optional max-length
argument caps sentence length in tokens (default 50). Sentences that
fail to parse are dropped; their line still produces output.

Example:

  cat corpus.txt | depgraph 40 > parses.jsonl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("max-length must be an integer, got %q", args[0])
				}
				opts.maxLength = n
			}
			return runPipeline(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "Lines processed concurrently")
	cmd.PersistentFlags().StringVar(&opts.publishURL, "publish", "", "NATS URL to publish sentence graphs to")
	cmd.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Listen address for Prometheus metrics")

	cmd.Flags().StringVar(&opts.format, "format", "", "Output format (jsonl, conllx, dot)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(fetchCmd(opts))
	cmd.AddCommand(watchCmd(opts))
	cmd.AddCommand(batchCmd(opts))

	return cmd
}
