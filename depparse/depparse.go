// Package depparse defines the typed dependency parse of a single sentence.
package depparse

import (
	"encoding/json"
	"fmt"
)

// RootIndex is the sentinel word index of the synthetic super-root.
// It never corresponds to a surface word and appears only as a governor.
const RootIndex = -1

// Edge is one typed grammatical relation between two words of a sentence.
// Governor and Dependent are 0-based indices into the parse's word list;
// Governor may be RootIndex after normalization.
type Edge struct {
	Governor  int
	Dependent int
	Relation  string
}

// MarshalJSON encodes the edge as a [governor, dependent, relation] triple.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{e.Governor, e.Dependent, e.Relation})
}

// UnmarshalJSON decodes a [governor, dependent, relation] triple.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("edge must be a JSON array: %w", err)
	}
	if len(tuple) != 3 {
		return fmt.Errorf("edge must have 3 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &e.Governor); err != nil {
		return fmt.Errorf("edge governor: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &e.Dependent); err != nil {
		return fmt.Errorf("edge dependent: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &e.Relation); err != nil {
		return fmt.Errorf("edge relation: %w", err)
	}
	return nil
}

// DependencyParse is the dependency structure of one sentence: the surface
// words, their part-of-speech tags, and the typed relations between them.
// Values are immutable once built; every operation returns a new value and
// derives nothing lazily.
type DependencyParse struct {
	Words []string `json:"words"`
	Tags  []string `json:"tags"`
	Edges []Edge   `json:"edges"`
}

// New builds a validated parse. Nil slices are normalized to empty ones so
// the value always serializes with arrays, never null.
func New(words, tags []string, edges []Edge) (DependencyParse, error) {
	if words == nil {
		words = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	p := DependencyParse{Words: words, Tags: tags, Edges: edges}
	if err := p.Validate(); err != nil {
		return DependencyParse{}, err
	}
	return p, nil
}

// Len returns the number of words in the sentence.
func (p DependencyParse) Len() int {
	return len(p.Words)
}

// Validate checks the structural invariants: words and tags have equal
// length, every edge index is a valid word index (or RootIndex for a
// governor), and every relation is labeled.
func (p DependencyParse) Validate() error {
	if len(p.Words) != len(p.Tags) {
		return fmt.Errorf("words/tags length mismatch: %d words, %d tags", len(p.Words), len(p.Tags))
	}
	n := len(p.Words)
	for i, e := range p.Edges {
		if e.Governor != RootIndex && (e.Governor < 0 || e.Governor >= n) {
			return fmt.Errorf("edge %d: governor %d out of range [0,%d)", i, e.Governor, n)
		}
		if e.Dependent < 0 || e.Dependent >= n {
			return fmt.Errorf("edge %d: dependent %d out of range [0,%d)", i, e.Dependent, n)
		}
		if e.Relation == "" {
			return fmt.Errorf("edge %d: empty relation", i)
		}
	}
	return nil
}

// Roots returns the word indices that are not a dependent of any edge, in
// ascending order. The set is recomputed from Edges on every call, so it is
// always consistent with the current edge list.
func (p DependencyParse) Roots() []int {
	dependent := make(map[int]bool, len(p.Edges))
	for _, e := range p.Edges {
		dependent[e.Dependent] = true
	}
	var roots []int
	for i := range p.Words {
		if !dependent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// AddRoots returns a copy of the parse with one (RootIndex, r, "root") edge
// appended for each root r, in ascending order. The receiver is never
// modified. Applying AddRoots to an already-normalized parse is a no-op
// because no un-governed word remains. A parse whose edges form a cycle over
// all words has no roots and is returned unchanged; use graph.IsRooted to
// detect that case downstream.
func (p DependencyParse) AddRoots() DependencyParse {
	roots := p.Roots()
	if len(roots) == 0 {
		return p
	}
	edges := make([]Edge, len(p.Edges), len(p.Edges)+len(roots))
	copy(edges, p.Edges)
	for _, r := range roots {
		edges = append(edges, Edge{Governor: RootIndex, Dependent: r, Relation: RelRoot})
	}
	return DependencyParse{Words: p.Words, Tags: p.Tags, Edges: edges}
}
