// Package engine provides a provider-agnostic client for external linguistic
// annotation services. Tokenization, sentence splitting, part-of-speech
// tagging, constituency parsing, and typed-dependency extraction all run on
// the remote engine; this package only speaks its protocol.
package engine

import "context"

// TaggedWord is a surface word with its part-of-speech tag.
// The tag is empty when tagging has not run.
type TaggedWord struct {
	Word string
	Tag  string
}

// Sentence is one sentence of the input text.
type Sentence struct {
	// Text is the sentence surface form as the engine reports it.
	Text string

	// Tokens are the sentence tokens in order.
	Tokens []TaggedWord

	// Begin and End are character offsets into the annotated text, when the
	// engine reports them.
	Begin int
	End   int
}

// Relation is a typed grammatical relation between two tokens of one
// sentence in the engine's indexing convention: token indices are 1-based
// and 0 denotes the engine's ROOT pseudo-token.
type Relation struct {
	Governor  int
	Dependent int
	Label     string
}

// ParseTree is the engine's analysis of one sentence: the constituency
// bracketing (when the engine produces one), the tree's yield, and the typed
// relations derived from it. Relations are carried on the tree so reading
// them back needs no second round trip.
type ParseTree struct {
	// Bracketing is the Penn-style constituency parse. Engines that emit
	// dependencies directly leave it empty.
	Bracketing string

	// Leaves is the tree's yield: one tagged word per token.
	Leaves []TaggedWord

	// Relations are the engine-computed typed dependencies for the sentence.
	Relations []Relation
}

// Yield returns the leaf word/tag pairs in sentence order.
func (t *ParseTree) Yield() []TaggedWord {
	return t.Leaves
}

// AnnotatedSentence is one sentence of an annotation response.
type AnnotatedSentence struct {
	Tokens     []TaggedWord
	Bracketing string
	Relations  []Relation
	Begin      int
	End        int
}

// Annotation is a provider-decoded annotation response.
type Annotation struct {
	Sentences []AnnotatedSentence
}

// AnnotateOptions select which annotation stages run and how the input is
// segmented.
type AnnotateOptions struct {
	// SplitOnly requests tokenization and sentence splitting without
	// tagging or parsing.
	SplitOnly bool

	// SingleSentence forces the whole input to be one sentence.
	SingleSentence bool

	// Pretokenized marks the input as whitespace-separated tokens of a
	// single sentence; the engine must not re-tokenize.
	Pretokenized bool

	// Language selects the engine model for providers that serve several.
	Language string
}

// Engine is the linguistic annotation contract the pipeline depends on.
// Implementations must be safe for concurrent use.
type Engine interface {
	// SplitSentences tokenizes the text and splits it into sentences.
	SplitSentences(ctx context.Context, text string) ([]Sentence, error)

	// Parse tags and parses one sentence. A sentence with Tokens set is
	// treated as pre-tokenized; otherwise Text is sent as-is.
	Parse(ctx context.Context, sentence Sentence) (*ParseTree, error)

	// TypedRelations reads the typed dependencies off a parsed tree. It
	// fails with ErrDegenerateTree when the tree supports no relations.
	TypedRelations(ctx context.Context, tree *ParseTree) ([]Relation, error)
}
