package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxResponseSize limits the annotation response body to prevent memory
// exhaustion. Constituency parses are verbose but bounded.
const maxResponseSize = 32 * 1024 * 1024 // 32MB

// DefaultProviderName is the provider used when none is configured.
const DefaultProviderName = "corenlp"

// Client talks to one annotation service through a registered Provider.
// It is stateless apart from its HTTP client and safe for concurrent use.
type Client struct {
	provider    string
	baseURL     string
	language    string
	httpClient  *http.Client
	retryConfig RetryConfig
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retryConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithLanguage sets the engine model language for providers that serve
// several models.
func WithLanguage(lang string) ClientOption {
	return func(client *Client) {
		client.language = lang
	}
}

// NewClient creates a client for the named provider. An empty baseURL uses
// the provider's default endpoint. The provider is resolved per request, so
// it may be registered after the client is constructed.
func NewClient(provider, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		provider:    provider,
		baseURL:     baseURL,
		retryConfig: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // Allow time for remote inference
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ Engine = (*Client)(nil)

// SplitSentences tokenizes the text and splits it into sentences without
// tagging or parsing. Blank input yields no sentences and no request.
func (c *Client) SplitSentences(ctx context.Context, text string) ([]Sentence, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	ann, err := c.annotate(ctx, text, AnnotateOptions{SplitOnly: true, Language: c.language})
	if err != nil {
		return nil, err
	}

	sentences := make([]Sentence, 0, len(ann.Sentences))
	for _, s := range ann.Sentences {
		sentences = append(sentences, Sentence{
			Text:   sentenceText(s.Tokens),
			Tokens: s.Tokens,
			Begin:  s.Begin,
			End:    s.End,
		})
	}
	return sentences, nil
}

// Parse tags and parses one sentence, returning its tree with the typed
// relations attached. A sentence carrying tokens is sent pre-tokenized so
// the engine keeps the given segmentation.
func (c *Client) Parse(ctx context.Context, sentence Sentence) (*ParseTree, error) {
	opts := AnnotateOptions{SingleSentence: true, Language: c.language}
	text := sentence.Text
	if len(sentence.Tokens) > 0 {
		words := make([]string, len(sentence.Tokens))
		for i, t := range sentence.Tokens {
			words[i] = t.Word
		}
		text = strings.Join(words, " ")
		opts.Pretokenized = true
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty sentence", ErrDegenerateTree)
	}

	ann, err := c.annotate(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	if len(ann.Sentences) == 0 {
		return nil, fmt.Errorf("%w: engine returned no analysis", ErrDegenerateTree)
	}

	// The engine is told to treat the input as one sentence; if it still
	// returns several, only the first is the requested analysis.
	s := ann.Sentences[0]
	return &ParseTree{
		Bracketing: s.Bracketing,
		Leaves:     s.Tokens,
		Relations:  s.Relations,
	}, nil
}

// TypedRelations reads the typed dependencies off a parsed tree.
func (c *Client) TypedRelations(_ context.Context, tree *ParseTree) ([]Relation, error) {
	if tree == nil || len(tree.Leaves) == 0 {
		return nil, fmt.Errorf("%w: empty yield", ErrDegenerateTree)
	}
	if len(tree.Relations) == 0 {
		return nil, fmt.Errorf("%w: no relations for %d-token sentence", ErrDegenerateTree, len(tree.Leaves))
	}
	return tree.Relations, nil
}

// annotate performs one annotation round trip with retry.
func (c *Client) annotate(ctx context.Context, text string, opts AnnotateOptions) (*Annotation, error) {
	requestID := uuid.New().String()

	var lastErr error
	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		ann, err := c.doRequest(ctx, text, opts, requestID)
		if err == nil {
			return ann, nil
		}

		lastErr = err

		// Don't retry fatal errors
		if IsFatal(err) {
			return nil, err
		}

		if attempt < c.retryConfig.MaxAttempts {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("Annotation request failed, retrying",
				"request_id", requestID,
				"attempt", attempt,
				"max_attempts", c.retryConfig.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				// Continue to retry
			}
		}
	}

	return nil, fmt.Errorf("annotation failed after %d attempts: %w", c.retryConfig.MaxAttempts, lastErr)
}

// calculateBackoff computes exponential backoff duration with jitter.
// Jitter prevents thundering herd when multiple clients retry simultaneously.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= c.retryConfig.BackoffMultiplier
	}

	backoff := time.Duration(float64(c.retryConfig.BackoffBase) * multiplier)
	if backoff > c.retryConfig.MaxBackoff {
		backoff = c.retryConfig.MaxBackoff
	}

	// Add jitter: +/- 25% to prevent synchronized retries
	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}

// doRequest executes a single HTTP request against the annotation service.
func (c *Client) doRequest(ctx context.Context, text string, opts AnnotateOptions, requestID string) (*Annotation, error) {
	provider := GetProvider(c.provider)
	if provider == nil {
		return nil, NewFatalError(fmt.Errorf("unknown provider: %s", c.provider))
	}

	url := provider.BuildURL(c.baseURL, opts)

	body, err := provider.BuildRequestBody(text, opts)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	c.logger.Debug("Sending annotation request",
		"request_id", requestID,
		"provider", provider.Name(),
		"url", url,
		"bytes", len(body),
		"split_only", opts.SplitOnly)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}

	provider.SetHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors are transient
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	// Read response body with size limit to prevent memory exhaustion
	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	ann, err := provider.ParseResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("parse %s response: %w", provider.Name(), err)
	}
	return ann, nil
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("annotation service error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		// Rate limiting is transient
		return NewTransientError(err)
	case statusCode >= 500:
		// Server errors are transient
		return NewTransientError(err)
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden:
		// Auth errors are fatal
		return NewFatalError(err)
	case statusCode == http.StatusBadRequest:
		// Bad requests are fatal
		return NewFatalError(err)
	default:
		// Unknown errors default to fatal
		return NewFatalError(err)
	}
}

// sentenceText joins token words for display. Engines report tokens, not
// the raw sentence slice, so this is the canonical surface form downstream.
func sentenceText(tokens []TaggedWord) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Word
	}
	return strings.Join(words, " ")
}
