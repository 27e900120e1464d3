package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// IngestSubject is the subject sentence graphs are published to.
const IngestSubject = "graph.ingest.sentence"

// Publisher publishes sentence payloads to a NATS subject. A nil Publisher
// is valid and publishes nothing, so callers without a sink configured can
// skip the wiring entirely.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher connects to NATS at the given URL.
func NewPublisher(url string, opts ...PublisherOption) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	p := &Publisher{
		conn:   conn,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish sends one sentence payload to the ingest subject and flushes it.
// Publishing on a nil Publisher is a no-op (graceful degradation).
func (p *Publisher) Publish(ctx context.Context, payload *SentencePayload) error {
	if p == nil || p.conn == nil {
		return nil
	}

	if err := payload.Validate(); err != nil {
		return fmt.Errorf("validate sentence payload: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sentence payload: %w", err)
	}

	if err := p.conn.Publish(IngestSubject, data); err != nil {
		return fmt.Errorf("publish sentence payload: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush sentence payload: %w", err)
	}

	p.logger.Debug("Published sentence graph",
		"id", payload.ID,
		"triples", len(payload.Triples),
		"subject", IngestSubject)
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Drain()
	p.conn.Close()
}
