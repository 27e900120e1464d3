package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/c360studio/depgraph/engine"
)

// conlluFields is the column count of a CoNLL-U token line.
const conlluFields = 10

// UDPipeProvider implements the UDPipe REST protocol. The service returns
// CoNLL-U, which carries dependencies directly; there is no constituency
// bracketing.
type UDPipeProvider struct{}

func init() {
	engine.RegisterProvider(&UDPipeProvider{})
}

// Name returns the provider identifier.
func (p *UDPipeProvider) Name() string {
	return "udpipe"
}

// BuildURL constructs the process endpoint URL. Options travel in the form
// body, not the URL.
func (p *UDPipeProvider) BuildURL(baseURL string, _ engine.AnnotateOptions) string {
	if baseURL == "" {
		baseURL = "http://localhost:8001"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if strings.HasSuffix(baseURL, "/process") {
		return baseURL
	}
	return baseURL + "/process"
}

// SetHeaders marks the body as a URL-encoded form.
func (p *UDPipeProvider) SetHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
}

// BuildRequestBody encodes the text and pipeline stages as form fields.
func (p *UDPipeProvider) BuildRequestBody(text string, opts engine.AnnotateOptions) ([]byte, error) {
	form := url.Values{}
	form.Set("data", text)
	form.Set("output", "conllu")

	switch {
	case opts.Pretokenized:
		// Horizontal input: one sentence per line, space-separated tokens.
		form.Set("input", "horizontal")
	case opts.SingleSentence:
		form.Set("tokenizer", "presegmented")
	default:
		form.Set("tokenizer", "")
	}

	if !opts.SplitOnly {
		form.Set("tagger", "")
		form.Set("parser", "")
	}
	if opts.Language != "" {
		form.Set("model", opts.Language)
	}

	return []byte(form.Encode()), nil
}

// udpipeResponse is the UDPipe REST output envelope.
type udpipeResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

// ParseResponse decodes the envelope and the CoNLL-U block inside it.
func (p *UDPipeProvider) ParseResponse(body []byte) (*engine.Annotation, error) {
	var resp udpipeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse udpipe response: %w", err)
	}

	sentences, err := parseCoNLLU(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("parse udpipe conllu result: %w", err)
	}
	return &engine.Annotation{Sentences: sentences}, nil
}

// parseCoNLLU reads CoNLL-U text into annotated sentences. Sentences are
// separated by blank lines; comment lines start with '#'. Multiword range
// IDs ("2-3") and empty-node IDs ("2.1") are skipped: they do not occupy a
// token position.
func parseCoNLLU(text string) ([]engine.AnnotatedSentence, error) {
	var sentences []engine.AnnotatedSentence
	var cur engine.AnnotatedSentence

	flush := func() {
		if len(cur.Tokens) > 0 {
			sentences = append(sentences, cur)
		}
		cur = engine.AnnotatedSentence{}
	}

	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != conlluFields {
			return nil, fmt.Errorf("line %d: expected %d tab-separated fields, got %d", lineNo+1, conlluFields, len(fields))
		}

		id := fields[0]
		if strings.ContainsAny(id, "-.") {
			continue
		}
		idx, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("line %d: token ID %q: %w", lineNo+1, id, err)
		}

		// XPOS when present, UPOS otherwise.
		tag := fields[4]
		if tag == "_" || tag == "" {
			tag = fields[3]
		}
		cur.Tokens = append(cur.Tokens, engine.TaggedWord{Word: fields[1], Tag: tag})

		// HEAD/DEPREL are "_" when the parser did not run.
		if fields[6] != "_" {
			head, err := strconv.Atoi(fields[6])
			if err != nil {
				return nil, fmt.Errorf("line %d: head %q: %w", lineNo+1, fields[6], err)
			}
			cur.Relations = append(cur.Relations, engine.Relation{
				Governor:  head,
				Dependent: idx,
				Label:     fields[7],
			})
		}
	}
	flush()

	return sentences, nil
}
