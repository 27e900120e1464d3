package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/depgraph/depparse"
	"github.com/google/uuid"
)

// Predicates for sentence graph triples.
const (
	// PredicateWordText is the surface form of a word entity.
	PredicateWordText = "depgraph.word.text"

	// PredicateWordTag is the part-of-speech tag of a word entity.
	PredicateWordTag = "depgraph.word.tag"

	// PredicateRelPrefix prefixes typed-relation predicates; the relation
	// label is appended (e.g. "depgraph.rel.nsubj").
	PredicateRelPrefix = "depgraph.rel."

	// TripleSource identifies this pipeline as the triple producer.
	TripleSource = "depgraph.pipeline"
)

// Triple is one subject-predicate-object assertion about a sentence graph.
type Triple struct {
	Subject    string    `json:"subject"`
	Predicate  string    `json:"predicate"`
	Object     string    `json:"object"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
}

// SentencePayload is the graph-ingestion message for one parsed sentence:
// the parse itself plus its node and edge structure flattened to triples.
type SentencePayload struct {
	ID        string                   `json:"id"`
	Parse     depparse.DependencyParse `json:"parse"`
	Triples   []Triple                 `json:"triples"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// NewSentencePayload builds the payload for a parse. The parse is
// normalized first so the emitted structure is rooted, and the attributed
// graph is derived fresh from it.
func NewSentencePayload(p depparse.DependencyParse) *SentencePayload {
	id := SentenceEntityID(uuid.New().String())
	now := time.Now()

	normalized := p.AddRoots()
	g := Build(normalized)

	var triples []Triple
	for _, n := range g.Nodes() {
		word, ok := n.Attrs[AttrWord]
		if !ok {
			continue
		}
		subject := WordEntityID(id, n.Index)
		triples = append(triples,
			Triple{
				Subject:    subject,
				Predicate:  PredicateWordText,
				Object:     word,
				Source:     TripleSource,
				Timestamp:  now,
				Confidence: 1.0,
			},
			Triple{
				Subject:    subject,
				Predicate:  PredicateWordTag,
				Object:     n.Attrs[AttrTag],
				Source:     TripleSource,
				Timestamp:  now,
				Confidence: 1.0,
			})
	}
	for _, e := range g.Edges() {
		triples = append(triples, Triple{
			Subject:    WordEntityID(id, e.From),
			Predicate:  PredicateRelPrefix + e.Attrs[AttrType],
			Object:     WordEntityID(id, e.To),
			Source:     TripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}

	return &SentencePayload{
		ID:        id,
		Parse:     normalized,
		Triples:   triples,
		UpdatedAt: now,
	}
}

// Validate checks the payload is publishable.
func (p *SentencePayload) Validate() error {
	if p.ID == "" {
		return errors.New("payload ID is required")
	}
	if err := p.Parse.Validate(); err != nil {
		return fmt.Errorf("payload parse: %w", err)
	}
	return nil
}

func (p *SentencePayload) MarshalJSON() ([]byte, error) {
	type Alias SentencePayload
	return json.Marshal((*Alias)(p))
}

func (p *SentencePayload) UnmarshalJSON(data []byte) error {
	type Alias SentencePayload
	return json.Unmarshal(data, (*Alias)(p))
}

// SentenceEntityID generates a consistent entity ID for a sentence.
// Format: sentence.<uuid>
func SentenceEntityID(id string) string {
	return fmt.Sprintf("sentence.%s", id)
}

// WordEntityID generates a consistent entity ID for a word of a sentence.
// Format: <sentence-id>.word.<index>; the super-root uses <sentence-id>.root
func WordEntityID(sentenceID string, index int) string {
	if index == depparse.RootIndex {
		return sentenceID + ".root"
	}
	return fmt.Sprintf("%s.word.%d", sentenceID, index)
}
