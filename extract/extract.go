// Package extract converts engine analyses into dependency parses.
// It owns the index-convention boundary: engines number tokens from 1 with
// 0 as their ROOT pseudo-token, while depparse indexes words from 0 with -1
// as the super-root. Every relation crossing this package is shifted by -1.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/depgraph/depparse"
	"github.com/c360studio/depgraph/engine"
)

// ErrNoParse indicates a sentence produced no usable dependency parse.
// It classifies recoverable per-sentence failures: callers drop the sentence
// and continue. Engine availability problems are never wrapped in it.
var ErrNoParse = errors.New("no dependency parse")

// Kind tags the shape of an extraction input.
type Kind int

const (
	// KindText is raw text: split into sentences, parse and extract each.
	KindText Kind = iota

	// KindTokens is one pre-tokenized sentence.
	KindTokens

	// KindTree is an already-parsed constituency tree.
	KindTree
)

// String returns the tag name for logging.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTokens:
		return "tokens"
	case KindTree:
		return "tree"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Input is a tagged union over the extraction input shapes. Construct it
// with Text, Tokens, or Tree; the zero value is an empty text input.
type Input struct {
	kind   Kind
	text   string
	tokens []string
	tree   *engine.ParseTree
}

// Text wraps raw text, possibly containing several sentences.
func Text(s string) Input {
	return Input{kind: KindText, text: s}
}

// Tokens wraps one pre-tokenized sentence.
func Tokens(words []string) Input {
	return Input{kind: KindTokens, tokens: words}
}

// Tree wraps an already-parsed tree.
func Tree(t *engine.ParseTree) Input {
	return Input{kind: KindTree, tree: t}
}

// Kind returns the input shape tag.
func (in Input) Kind() Kind {
	return in.kind
}

// Extractor turns extraction inputs into dependency parses using a
// linguistic engine. It is stateless and safe for concurrent use when its
// engine is.
type Extractor struct {
	engine engine.Engine
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Extractor) {
		x.logger = logger
	}
}

// New creates an extractor over the given engine.
func New(eng engine.Engine, opts ...Option) *Extractor {
	x := &Extractor{
		engine: eng,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract dispatches on the input shape.
//
// Text input returns one parse per sentence that extracted successfully;
// sentences that fail recoverably are dropped. Tokens and Tree inputs
// describe exactly one sentence, so a recoverable failure surfaces as an
// ErrNoParse-classified error for the caller to filter. Engine failures
// (unreachable service, fatal protocol errors) always propagate.
func (x *Extractor) Extract(ctx context.Context, in Input) ([]depparse.DependencyParse, error) {
	switch in.kind {
	case KindText:
		return x.extractText(ctx, in.text)
	case KindTokens:
		p, err := x.ExtractSentence(ctx, tokenSentence(in.tokens))
		if err != nil {
			return nil, err
		}
		return []depparse.DependencyParse{p}, nil
	case KindTree:
		p, err := x.ExtractTree(ctx, in.tree)
		if err != nil {
			return nil, err
		}
		return []depparse.DependencyParse{p}, nil
	default:
		return nil, fmt.Errorf("unsupported input kind %v", in.kind)
	}
}

// extractText splits the text and extracts every sentence, keeping the
// successes in order.
func (x *Extractor) extractText(ctx context.Context, text string) ([]depparse.DependencyParse, error) {
	sentences, err := x.engine.SplitSentences(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("split sentences: %w", err)
	}

	parses := make([]depparse.DependencyParse, 0, len(sentences))
	for _, s := range sentences {
		p, err := x.ExtractSentence(ctx, s)
		if err != nil {
			if errors.Is(err, ErrNoParse) {
				x.logger.Debug("Dropping unparseable sentence", "sentence", s.Text, "error", err)
				continue
			}
			return nil, err
		}
		parses = append(parses, p)
	}
	return parses, nil
}

// ExtractSentence parses one sentence and extracts its dependency parse.
func (x *Extractor) ExtractSentence(ctx context.Context, s engine.Sentence) (depparse.DependencyParse, error) {
	tree, err := x.engine.Parse(ctx, s)
	if err != nil {
		if errors.Is(err, engine.ErrDegenerateTree) {
			return depparse.DependencyParse{}, fmt.Errorf("%w: %v", ErrNoParse, err)
		}
		return depparse.DependencyParse{}, fmt.Errorf("parse sentence: %w", err)
	}
	return x.ExtractTree(ctx, tree)
}

// ExtractTree extracts the dependency parse from one parsed tree: words and
// tags come from the yield, edges from the typed relations with the 1-based
// engine indices shifted down by one.
func (x *Extractor) ExtractTree(ctx context.Context, tree *engine.ParseTree) (depparse.DependencyParse, error) {
	if tree == nil {
		return depparse.DependencyParse{}, fmt.Errorf("%w: nil tree", ErrNoParse)
	}

	relations, err := x.engine.TypedRelations(ctx, tree)
	if err != nil {
		if errors.Is(err, engine.ErrDegenerateTree) {
			return depparse.DependencyParse{}, fmt.Errorf("%w: %v", ErrNoParse, err)
		}
		return depparse.DependencyParse{}, fmt.Errorf("typed relations: %w", err)
	}

	leaves := tree.Yield()
	words := make([]string, len(leaves))
	tags := make([]string, len(leaves))
	for i, l := range leaves {
		words[i] = l.Word
		tags[i] = l.Tag
	}

	edges := make([]depparse.Edge, 0, len(relations))
	for _, r := range relations {
		gov := r.Governor - 1
		dep := r.Dependent - 1
		if gov < depparse.RootIndex || gov >= len(words) {
			return depparse.DependencyParse{}, fmt.Errorf("%w: relation governor %d outside sentence of %d tokens", ErrNoParse, r.Governor, len(words))
		}
		if dep < 0 || dep >= len(words) {
			return depparse.DependencyParse{}, fmt.Errorf("%w: relation dependent %d outside sentence of %d tokens", ErrNoParse, r.Dependent, len(words))
		}
		edges = append(edges, depparse.Edge{Governor: gov, Dependent: dep, Relation: r.Label})
	}

	p, err := depparse.New(words, tags, edges)
	if err != nil {
		return depparse.DependencyParse{}, fmt.Errorf("%w: %v", ErrNoParse, err)
	}
	return p, nil
}

// tokenSentence builds the engine sentence for a pre-tokenized input.
func tokenSentence(words []string) engine.Sentence {
	tokens := make([]engine.TaggedWord, len(words))
	for i, w := range words {
		tokens[i] = engine.TaggedWord{Word: w}
	}
	return engine.Sentence{Tokens: tokens}
}
