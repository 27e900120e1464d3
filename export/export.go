// Package export provides output serializations for dependency parses.
package export

import "fmt"

// Format specifies the output serialization format.
type Format string

const (
	// FormatJSONL produces one JSON array of parses per input line.
	FormatJSONL Format = "jsonl"

	// FormatCoNLLX produces CoNLL-X tabular output, one token per row.
	FormatCoNLLX Format = "conllx"

	// FormatDOT produces a Graphviz digraph per parse.
	FormatDOT Format = "dot"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatJSONL: {
		Name:        FormatJSONL,
		MIMEType:    "application/jsonlines",
		Extension:   ".jsonl",
		Description: "JSON Lines - one parse array per input line",
	},
	FormatCoNLLX: {
		Name:        FormatCoNLLX,
		MIMEType:    "text/tab-separated-values",
		Extension:   ".conll",
		Description: "CoNLL-X - tabular dependency format",
	},
	FormatDOT: {
		Name:        FormatDOT,
		MIMEType:    "text/vnd.graphviz",
		Extension:   ".dot",
		Description: "Graphviz DOT - one digraph per parse",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unknown format %q", name)
	}
	return f, nil
}
