package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/depgraph/depparse"
)

// blank is the CoNLL-X placeholder for absent column values.
const blank = "_"

// CoNLLXWriter writes dependency parses in CoNLL-X tabular form: ten
// tab-separated columns per token (ID, FORM, LEMMA, CPOSTAG, POSTAG, FEATS,
// HEAD, DEPREL, PHEAD, PDEPREL) with a blank line after each sentence.
//
// Token IDs are 1-based; a head of 0 denotes the super-root. A token with
// no incoming edge gets a blank HEAD and DEPREL, so normalized parses
// always produce fully-headed rows. When a token has several incoming
// edges only the first is written; CoNLL-X has no column for the rest.
type CoNLLXWriter struct {
	sb strings.Builder
}

// NewCoNLLXWriter creates a new CoNLL-X writer.
func NewCoNLLXWriter() *CoNLLXWriter {
	return &CoNLLXWriter{}
}

// WriteParse appends one sentence.
func (w *CoNLLXWriter) WriteParse(p depparse.DependencyParse) {
	// First incoming edge per dependent.
	incoming := make(map[int]depparse.Edge, len(p.Edges))
	for _, e := range p.Edges {
		if _, ok := incoming[e.Dependent]; !ok {
			incoming[e.Dependent] = e
		}
	}

	for i, word := range p.Words {
		head := blank
		deprel := blank
		if e, ok := incoming[i]; ok {
			head = fmt.Sprintf("%d", e.Governor+1)
			deprel = e.Relation
		}

		tag := p.Tags[i]
		if tag == "" {
			tag = blank
		}

		w.sb.WriteString(strings.Join([]string{
			fmt.Sprintf("%d", i+1), // ID
			word,                   // FORM
			blank,                  // LEMMA
			tag,                    // CPOSTAG
			tag,                    // POSTAG
			blank,                  // FEATS
			head,                   // HEAD
			deprel,                 // DEPREL
			blank,                  // PHEAD
			blank,                  // PDEPREL
		}, "\t"))
		w.sb.WriteString("\n")
	}
	w.sb.WriteString("\n")
}

// String returns the accumulated CoNLL-X output.
func (w *CoNLLXWriter) String() string {
	return w.sb.String()
}
