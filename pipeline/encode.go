package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/c360studio/depgraph/depparse"
	"github.com/c360studio/depgraph/export"
	"github.com/c360studio/depgraph/graph"
)

// Encoder serializes the parses recovered from one input line.
type Encoder interface {
	// EncodeLine writes the parses for a single line to w. The slice may be
	// empty when every sentence on the line was filtered or failed.
	EncodeLine(w io.Writer, parses []depparse.DependencyParse) error
}

// NewEncoder returns the encoder for the given output format.
func NewEncoder(format export.Format) (Encoder, error) {
	switch format {
	case export.FormatJSONL:
		return jsonlEncoder{}, nil
	case export.FormatCoNLLX:
		return conllxEncoder{}, nil
	case export.FormatDOT:
		return dotEncoder{}, nil
	default:
		return nil, fmt.Errorf("no encoder for format %q", format)
	}
}

// jsonlEncoder writes one JSON array per input line. Parses are emitted
// exactly as extracted, without root normalization.
type jsonlEncoder struct{}

func (jsonlEncoder) EncodeLine(w io.Writer, parses []depparse.DependencyParse) error {
	data, err := json.Marshal(parses)
	if err != nil {
		return fmt.Errorf("marshal parses: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// conllxEncoder writes root-normalized parses as CoNLL-X token blocks.
// Line boundaries are not preserved; sentences follow each other separated
// by blank lines.
type conllxEncoder struct{}

func (conllxEncoder) EncodeLine(w io.Writer, parses []depparse.DependencyParse) error {
	cw := export.NewCoNLLXWriter()
	for _, p := range parses {
		cw.WriteParse(p.AddRoots())
	}
	if _, err := io.WriteString(w, cw.String()); err != nil {
		return fmt.Errorf("write conll-x block: %w", err)
	}
	return nil
}

// dotEncoder writes one digraph per sentence, built from the
// root-normalized parse.
type dotEncoder struct{}

func (dotEncoder) EncodeLine(w io.Writer, parses []depparse.DependencyParse) error {
	for _, p := range parses {
		g := graph.Build(p.AddRoots())
		if err := graph.WriteDOT(w, g); err != nil {
			return fmt.Errorf("write digraph: %w", err)
		}
	}
	return nil
}
