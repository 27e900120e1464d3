package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/c360studio/depgraph/engine"
)

// skippedParse is the bracketing CoreNLP emits for sentences it refused to
// parse (too long, or the parser gave up).
const skippedParse = "SENTENCE_SKIPPED_OR_UNPARSABLE"

// CoreNLPProvider implements the Stanford CoreNLP server protocol.
// The server accepts raw text and a properties query parameter selecting
// annotators; typed dependencies are derived from the constituency parse.
type CoreNLPProvider struct{}

func init() {
	engine.RegisterProvider(&CoreNLPProvider{})
}

// Name returns the provider identifier.
func (p *CoreNLPProvider) Name() string {
	return "corenlp"
}

// BuildURL constructs the annotation URL with the properties parameter.
func (p *CoreNLPProvider) BuildURL(baseURL string, opts engine.AnnotateOptions) string {
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	props := map[string]string{
		"annotators":   "tokenize,ssplit,pos,parse",
		"outputFormat": "json",
	}
	if opts.SplitOnly {
		props["annotators"] = "tokenize,ssplit"
	}
	if opts.SingleSentence {
		props["ssplit.isOneSentence"] = "true"
	}
	if opts.Pretokenized {
		props["tokenize.whitespace"] = "true"
	}
	if opts.Language != "" {
		props["pipelineLanguage"] = opts.Language
	}

	// props only holds strings, so this cannot fail.
	propsJSON, _ := json.Marshal(props)

	q := url.Values{}
	q.Set("properties", string(propsJSON))
	return baseURL + "/?" + q.Encode()
}

// SetHeaders marks the body as plain text.
func (p *CoreNLPProvider) SetHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
}

// BuildRequestBody sends the raw text; all options travel in the URL.
func (p *CoreNLPProvider) BuildRequestBody(text string, _ engine.AnnotateOptions) ([]byte, error) {
	return []byte(text), nil
}

// corenlpResponse is the CoreNLP JSON output format.
type corenlpResponse struct {
	Sentences []struct {
		Index             int    `json:"index"`
		Parse             string `json:"parse"`
		BasicDependencies []struct {
			Dep       string `json:"dep"`
			Governor  int    `json:"governor"`
			Dependent int    `json:"dependent"`
		} `json:"basicDependencies"`
		Tokens []struct {
			Index                int    `json:"index"`
			Word                 string `json:"word"`
			Pos                  string `json:"pos"`
			CharacterOffsetBegin int    `json:"characterOffsetBegin"`
			CharacterOffsetEnd   int    `json:"characterOffsetEnd"`
		} `json:"tokens"`
	} `json:"sentences"`
}

// ParseResponse maps CoreNLP sentences onto the engine annotation model.
// ROOT relations arrive with governor 0, matching the engine convention.
func (p *CoreNLPProvider) ParseResponse(body []byte) (*engine.Annotation, error) {
	var resp corenlpResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse corenlp response: %w", err)
	}

	ann := &engine.Annotation{Sentences: make([]engine.AnnotatedSentence, 0, len(resp.Sentences))}
	for _, s := range resp.Sentences {
		out := engine.AnnotatedSentence{
			Tokens: make([]engine.TaggedWord, 0, len(s.Tokens)),
		}
		for _, t := range s.Tokens {
			out.Tokens = append(out.Tokens, engine.TaggedWord{Word: t.Word, Tag: t.Pos})
		}
		if len(s.Tokens) > 0 {
			out.Begin = s.Tokens[0].CharacterOffsetBegin
			out.End = s.Tokens[len(s.Tokens)-1].CharacterOffsetEnd
		}

		// A skipped sentence has no usable parse; leave the bracketing and
		// relations empty so it classifies as degenerate downstream.
		if s.Parse != "" && s.Parse != skippedParse {
			out.Bracketing = s.Parse
			for _, d := range s.BasicDependencies {
				out.Relations = append(out.Relations, engine.Relation{
					Governor:  d.Governor,
					Dependent: d.Dependent,
					Label:     d.Dep,
				})
			}
		}

		ann.Sentences = append(ann.Sentences, out)
	}
	return ann, nil
}
