// Package pipeline drives line-oriented text through sentence splitting,
// length filtering, dependency extraction, and serialization.
//
// Each input line is processed independently: the line is split into
// sentences, sentences outside the configured length window are dropped,
// and the survivors are parsed and extracted. A line whose sentences all
// fail still produces output (an empty result), so the output stream stays
// line-aligned with the input in the default format.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360studio/depgraph/depparse"
	"github.com/c360studio/depgraph/engine"
	"github.com/c360studio/depgraph/export"
	"github.com/c360studio/depgraph/extract"
	"github.com/c360studio/depgraph/graph"
)

const (
	// MinSentenceLength is the minimum token count for a sentence to be
	// parsed. Shorter fragments (headings, list bullets, stray punctuation)
	// rarely carry a full predicate-argument structure.
	MinSentenceLength = 5

	// DefaultMaxSentenceLength is the default upper bound on sentence
	// length in tokens. Very long sentences are usually tabular or
	// malformed text and dominate parse latency.
	DefaultMaxSentenceLength = 50

	// maxLineBytes bounds the scanner buffer for a single input line.
	maxLineBytes = 1 << 20

	// probeText is the short sentence used to verify engine availability.
	probeText = "The engine is ready."
)

// Config holds driver configuration.
type Config struct {
	// MaxSentenceLength is the maximum sentence length in tokens.
	MaxSentenceLength int

	// Workers is the number of lines processed concurrently. Output order
	// follows input order regardless of worker count.
	Workers int

	// Format selects the output encoder.
	Format export.Format
}

// DefaultConfig returns sensible driver defaults.
func DefaultConfig() Config {
	return Config{
		MaxSentenceLength: DefaultMaxSentenceLength,
		Workers:           1,
		Format:            export.FormatJSONL,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxSentenceLength < MinSentenceLength {
		return fmt.Errorf("MaxSentenceLength must be at least %d, got %d", MinSentenceLength, c.MaxSentenceLength)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("Workers must be positive, got %d", c.Workers)
	}
	if _, ok := export.GetFormatInfo(c.Format); !ok {
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	return nil
}

// Driver runs the line-oriented extraction pipeline.
type Driver struct {
	engine    engine.Engine
	extractor *extract.Extractor
	encoder   Encoder
	publisher *graph.Publisher
	config    Config
	logger    *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger for pipeline progress and skip diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPublisher attaches a graph publisher. Every successfully extracted
// sentence is published in addition to being written to the output stream.
func WithPublisher(p *graph.Publisher) Option {
	return func(d *Driver) {
		d.publisher = p
	}
}

// New creates a Driver backed by the given engine. Zero-value config
// fields are filled from DefaultConfig before validation.
func New(eng engine.Engine, cfg Config, opts ...Option) (*Driver, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}

	defaults := DefaultConfig()
	if cfg.MaxSentenceLength == 0 {
		cfg.MaxSentenceLength = defaults.MaxSentenceLength
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.Format == "" {
		cfg.Format = defaults.Format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	encoder, err := NewEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		engine:  eng,
		encoder: encoder,
		config:  cfg,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.extractor = extract.New(eng, extract.WithLogger(d.logger))

	return d, nil
}

// Probe verifies that the engine is reachable and able to split text.
// Callers should invoke it before a long run so that a missing or
// misconfigured engine surfaces immediately instead of as a silent
// stream of empty results.
func (d *Driver) Probe(ctx context.Context) error {
	if _, err := d.engine.SplitSentences(ctx, probeText); err != nil {
		return fmt.Errorf("engine probe: %w", err)
	}
	return nil
}

// Run reads lines from r until EOF and writes encoded parses to w.
// Per-sentence failures are logged and dropped; Run returns an error only
// for input/output failures, encoder failures, or context cancellation.
func (d *Driver) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	if d.config.Workers > 1 {
		return d.runParallel(ctx, r, w)
	}
	return d.runSequential(ctx, r, w)
}

func (d *Driver) runSequential(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		parses := d.processLine(ctx, scanner.Text())
		if err := d.encoder.EncodeLine(w, parses); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// processLine extracts the parses for one input line. It never fails: a
// split error yields zero sentences and extraction errors drop individual
// sentences. The returned slice is always non-nil.
func (d *Driver) processLine(ctx context.Context, text string) []depparse.DependencyParse {
	linesTotal.Inc()

	parses := []depparse.DependencyParse{}

	sentences, err := d.engine.SplitSentences(ctx, text)
	if err != nil {
		splitFailures.Inc()
		d.logger.Warn("sentence split failed", "error", err)
		return parses
	}

	for _, sent := range sentences {
		sentencesTotal.Inc()

		if n := len(sent.Tokens); n < MinSentenceLength || n > d.config.MaxSentenceLength {
			sentencesFiltered.Inc()
			d.logger.Debug("sentence filtered by length",
				"tokens", len(sent.Tokens),
				"min", MinSentenceLength,
				"max", d.config.MaxSentenceLength)
			continue
		}

		start := time.Now()
		p, err := d.extractor.ExtractSentence(ctx, sent)
		parseDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			extractFailures.Inc()
			if errors.Is(err, extract.ErrNoParse) {
				d.logger.Debug("sentence skipped", "error", err)
			} else {
				d.logger.Warn("sentence extraction failed", "error", err)
			}
			continue
		}

		d.publish(ctx, p)
		parses = append(parses, p)
	}

	return parses
}

// publish sends a parse to the attached publisher, if any. Publish
// failures are logged and never fail the line.
func (d *Driver) publish(ctx context.Context, p depparse.DependencyParse) {
	if d.publisher == nil {
		return
	}
	payload := graph.NewSentencePayload(p)
	if err := d.publisher.Publish(ctx, payload); err != nil {
		d.logger.Warn("publish sentence graph failed", "sentence_id", payload.ID, "error", err)
	}
}

type lineJob struct {
	num  int
	text string
}

type lineResult struct {
	num    int
	parses []depparse.DependencyParse
}

// runParallel processes lines through a bounded worker pool. Results are
// resequenced so output order matches input order exactly.
func (d *Driver) runParallel(ctx context.Context, r io.Reader, w io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan lineJob, d.config.Workers)
	results := make(chan lineResult, d.config.Workers)

	g.Go(func() error {
		defer close(jobs)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		num := 0
		for scanner.Scan() {
			job := lineJob{num: num, text: scanner.Text()}
			num++
			select {
			case jobs <- job:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		return nil
	})

	var workers sync.WaitGroup
	for i := 0; i < d.config.Workers; i++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for job := range jobs {
				res := lineResult{num: job.num, parses: d.processLine(ctx, job.text)}
				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	g.Go(func() error {
		pending := make(map[int][]depparse.DependencyParse)
		next := 0
		for res := range results {
			pending[res.num] = res.parses
			for {
				parses, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := d.encoder.EncodeLine(w, parses); err != nil {
					return err
				}
				next++
			}
		}
		return nil
	})

	return g.Wait()
}
