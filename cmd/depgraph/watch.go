package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/depgraph/source"
)

// watchCmd watches a directory and reprocesses corpus files as they change.
func watchCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and parse corpus files on change",
		Long: `Watch a directory tree for corpus file changes and run the pipeline
over each created or modified file. Output is written next to the input
with a .jsonl suffix, so changes to corpus.txt produce corpus.txt.jsonl.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Watch mode writes line-aligned files, other formats do not
			// keep line boundaries.
			opts.format = "jsonl"

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("watch directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.driver.Probe(ctx); err != nil {
				return fmt.Errorf("parse engine unavailable: %w", err)
			}

			watcher, err := source.NewWatcher(source.WatcherConfig{
				Debounce:    a.cfg.Watch.Debounce,
				Extensions:  a.cfg.Watch.Extensions,
				ExcludeDirs: a.cfg.Watch.ExcludeDirs,
			}, args[0], a.logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}

			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Stop()

			a.logger.Info("watching for corpus changes",
				"dir", args[0],
				"extensions", a.cfg.Watch.Extensions)

			for ev := range watcher.Events() {
				if ev.Op == source.OpDelete {
					continue
				}
				if err := a.processFile(ctx, ev.AbsPath); err != nil {
					a.logger.Error("processing failed", "path", ev.Path, "error", err)
				}
			}

			if n := watcher.Dropped(); n > 0 {
				a.logger.Warn("events dropped during watch", "count", n)
			}
			return nil
		},
	}

	return cmd
}
