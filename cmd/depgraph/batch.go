package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/depgraph/source"
)

// batchCmd processes a fixed set of corpus files matched by glob patterns.
func batchCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <pattern>...",
		Short: "Parse a set of corpus files matched by glob patterns",
		Long: `Run the pipeline over every file matching the given glob patterns.
Patterns support ** for recursive matching:

  depgraph batch 'corpus/**/*.txt' notes.md

Each input file produces a sibling output file with a .jsonl suffix.
A file that fails is logged and skipped; remaining files still run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = "jsonl"

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			files, err := source.ResolveFiles(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.driver.Probe(ctx); err != nil {
				return fmt.Errorf("parse engine unavailable: %w", err)
			}

			a.logger.Info("processing corpus batch", "files", len(files))

			failed := 0
			for _, path := range files {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err := a.processFile(ctx, path); err != nil {
					a.logger.Error("processing failed", "path", path, "error", err)
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}

	return cmd
}
