package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/depgraph/config"
	"github.com/c360studio/depgraph/engine"
	"github.com/c360studio/depgraph/export"
	"github.com/c360studio/depgraph/graph"
	"github.com/c360studio/depgraph/pipeline"
)

// appOptions collects flag values shared across commands. Zero values
// mean "not set"; configuration file values apply underneath.
type appOptions struct {
	configPath  string
	logLevel    string
	format      string
	workers     int
	publishURL  string
	metricsAddr string
	maxLength   int
}

// app bundles the wired pipeline stack for one command invocation.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    *engine.Client
	driver    *pipeline.Driver
	publisher *graph.Publisher
	metrics   *http.Server
}

// newLogger builds the process logger writing JSON to stderr.
func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers file configuration under command-line overrides.
func loadConfig(opts *appOptions, logger *slog.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.NewLoader(logger).Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.maxLength > 0 {
		cfg.Pipeline.MaxSentenceLength = opts.maxLength
	}
	if opts.format != "" {
		cfg.Pipeline.Format = opts.format
	}
	if opts.workers > 0 {
		cfg.Pipeline.Workers = opts.workers
	}
	if opts.publishURL != "" {
		cfg.Publish.URL = opts.publishURL
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp wires the engine client, optional publisher, driver, and
// optional metrics listener from options and configuration.
func newApp(opts *appOptions) (*app, error) {
	logger := newLogger(opts.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return nil, err
	}

	retry := engine.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Engine.MaxAttempts

	client := engine.NewClient(cfg.Engine.Provider, cfg.Engine.BaseURL,
		engine.WithHTTPClient(&http.Client{Timeout: cfg.Engine.Timeout}),
		engine.WithRetryConfig(retry),
		engine.WithLanguage(cfg.Engine.Language),
		engine.WithLogger(logger),
	)
	engine.Init(client)

	var publisher *graph.Publisher
	if cfg.Publish.URL != "" {
		publisher, err = graph.NewPublisher(cfg.Publish.URL, graph.WithPublisherLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("connect publisher: %w", err)
		}
		logger.Info("publishing sentence graphs", "url", cfg.Publish.URL, "subject", graph.IngestSubject)
	}

	driver, err := pipeline.New(client, pipeline.Config{
		MaxSentenceLength: cfg.Pipeline.MaxSentenceLength,
		Workers:           cfg.Pipeline.Workers,
		Format:            export.Format(cfg.Pipeline.Format),
	}, pipeline.WithLogger(logger), pipeline.WithPublisher(publisher))
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		engine:    client,
		driver:    driver,
		publisher: publisher,
	}

	if cfg.Metrics.Addr != "" {
		a.startMetrics(cfg.Metrics.Addr)
	}

	return a, nil
}

// startMetrics serves Prometheus metrics on the configured address.
func (a *app) startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	a.metrics = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		a.logger.Info("metrics listener starting", "addr", addr)
		if err := a.metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics listener failed", "error", err)
		}
	}()
}

// Close releases the app's connections.
func (a *app) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.metrics.Shutdown(ctx)
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
}

// runPipeline reads corpus lines from stdin and writes one JSON array of
// dependency parses per line to stdout.
func runPipeline(cmd *cobra.Command, opts *appOptions) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.driver.Probe(ctx); err != nil {
		return fmt.Errorf("parse engine unavailable: %w", err)
	}

	return a.driver.Run(ctx, os.Stdin, os.Stdout)
}

// processFile runs the pipeline over one corpus file, writing the output
// next to it with a .jsonl suffix.
func (a *app) processFile(ctx context.Context, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	outPath := path + ".jsonl"
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	if err := a.driver.Run(ctx, in, out); err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	a.logger.Info("processed corpus file", "input", path, "output", outPath)
	return nil
}
