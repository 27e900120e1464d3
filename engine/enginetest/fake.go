// Package enginetest provides test doubles for the engine package.
// The fake engine produces deterministic analyses without a server.
package enginetest

import (
	"context"
	"strings"
	"sync"

	"github.com/c360studio/depgraph/engine"
)

// Fake is a thread-safe, scripted engine.Engine for tests.
//
// With no configuration it behaves deterministically: sentences split on
// ./!/? boundaries, tokens split on whitespace with tag "X", and each
// sentence parses into a head-initial chain (token 1 is the root, every
// following token depends on its predecessor).
//
// Usage:
//
//	// Default deterministic engine
//	fake := &enginetest.Fake{}
//
//	// Fail parsing for one sentence
//	fake := &enginetest.Fake{
//	    ParseErrs: map[string]error{"bad sentence .": engine.ErrDegenerateTree},
//	}
//
//	// Fail splitting entirely
//	fake := &enginetest.Fake{SplitErr: errors.New("connection refused")}
type Fake struct {
	mu sync.Mutex

	// SplitErr is returned by every SplitSentences call when set.
	SplitErr error

	// ParseErr is returned by every Parse call when set.
	ParseErr error

	// ParseErrs fails Parse for specific sentence texts.
	ParseErrs map[string]error

	// Trees overrides the tree returned by Parse for specific sentence
	// texts. Unlisted sentences get the default chain analysis.
	Trees map[string]*engine.ParseTree

	splitCalls    int
	parseCalls    int
	relationCalls int
}

var _ engine.Engine = (*Fake)(nil)

// SplitSentences splits on sentence-final punctuation and whitespace.
func (f *Fake) SplitSentences(_ context.Context, text string) ([]engine.Sentence, error) {
	f.mu.Lock()
	f.splitCalls++
	err := f.SplitErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var sentences []engine.Sentence
	for _, part := range splitRough(text) {
		tokens := tokenize(part)
		if len(tokens) == 0 {
			continue
		}
		sentences = append(sentences, engine.Sentence{
			Text:   joinWords(tokens),
			Tokens: tokens,
		})
	}
	return sentences, nil
}

// Parse returns the scripted tree for the sentence, or the default chain.
func (f *Fake) Parse(_ context.Context, sentence engine.Sentence) (*engine.ParseTree, error) {
	tokens := sentence.Tokens
	if len(tokens) == 0 {
		tokens = tokenize(sentence.Text)
	}
	key := joinWords(tokens)

	f.mu.Lock()
	f.parseCalls++
	err := f.ParseErr
	if err == nil && f.ParseErrs != nil {
		err = f.ParseErrs[key]
	}
	tree := f.Trees[key]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if tree != nil {
		return tree, nil
	}
	return chainTree(tokens), nil
}

// TypedRelations returns the relations carried on the tree.
func (f *Fake) TypedRelations(_ context.Context, tree *engine.ParseTree) ([]engine.Relation, error) {
	f.mu.Lock()
	f.relationCalls++
	f.mu.Unlock()

	if tree == nil || len(tree.Leaves) == 0 || len(tree.Relations) == 0 {
		return nil, engine.ErrDegenerateTree
	}
	return tree.Relations, nil
}

// SplitCalls returns the number of SplitSentences calls.
func (f *Fake) SplitCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.splitCalls
}

// ParseCalls returns the number of Parse calls.
func (f *Fake) ParseCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parseCalls
}

// chainTree builds the default analysis: the first token is the root and
// every later token depends on the one before it.
func chainTree(tokens []engine.TaggedWord) *engine.ParseTree {
	relations := make([]engine.Relation, 0, len(tokens))
	if len(tokens) > 0 {
		relations = append(relations, engine.Relation{Governor: 0, Dependent: 1, Label: "root"})
	}
	for i := 2; i <= len(tokens); i++ {
		relations = append(relations, engine.Relation{Governor: i - 1, Dependent: i, Label: "dep"})
	}
	return &engine.ParseTree{
		Leaves:    tokens,
		Relations: relations,
	}
}

// splitRough cuts text after sentence-final punctuation.
func splitRough(text string) []string {
	var parts []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' {
			parts = append(parts, string(runes[start:i+1]))
			start = i + 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

// tokenize splits on whitespace, separating trailing sentence punctuation
// into its own token the way a real tokenizer would.
func tokenize(text string) []engine.TaggedWord {
	var tokens []engine.TaggedWord
	for _, field := range strings.Fields(text) {
		if len(field) > 1 {
			last := field[len(field)-1]
			if last == '.' || last == '!' || last == '?' || last == ',' {
				tokens = append(tokens,
					engine.TaggedWord{Word: field[:len(field)-1], Tag: "X"},
					engine.TaggedWord{Word: string(last), Tag: "."})
				continue
			}
		}
		tokens = append(tokens, engine.TaggedWord{Word: field, Tag: "X"})
	}
	return tokens
}

func joinWords(tokens []engine.TaggedWord) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Word
	}
	return strings.Join(words, " ")
}
