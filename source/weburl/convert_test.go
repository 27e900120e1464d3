package weburl

import (
	"strings"
	"testing"
)

func TestConverter_Convert_PrefersMainContent(t *testing.T) {
	html := `<html>
<head><title>Guide</title></head>
<body>
<nav><a href="/">Home</a></nav>
<main>
<h1>Parsing Guide</h1>
<p>Dependency parsing maps words to their governors.</p>
</main>
<footer>Copyright</footer>
</body>
</html>`

	doc, err := NewConverter().Convert([]byte(html))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if doc.Title != "Guide" {
		t.Errorf("expected title Guide, got %q", doc.Title)
	}
	if !strings.Contains(doc.Markdown, "# Parsing Guide") {
		t.Errorf("expected H1 heading in markdown, got:\n%s", doc.Markdown)
	}
	if !strings.Contains(doc.Markdown, "Dependency parsing maps words") {
		t.Errorf("expected body text in markdown, got:\n%s", doc.Markdown)
	}
	if strings.Contains(doc.Markdown, "Home") || strings.Contains(doc.Markdown, "Copyright") {
		t.Errorf("navigation chrome leaked into markdown:\n%s", doc.Markdown)
	}
}

func TestConverter_Convert_StripsNoiseWithoutMain(t *testing.T) {
	html := `<html>
<body>
<nav>Menu items</nav>
<script>alert("hi")</script>
<p>Plain body content survives.</p>
</body>
</html>`

	doc, err := NewConverter().Convert([]byte(html))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if !strings.Contains(doc.Markdown, "Plain body content survives.") {
		t.Errorf("expected body text, got:\n%s", doc.Markdown)
	}
	if strings.Contains(doc.Markdown, "Menu items") || strings.Contains(doc.Markdown, "alert") {
		t.Errorf("noise elements leaked into markdown:\n%s", doc.Markdown)
	}
}

func TestConverter_Convert_TitleFromHeading(t *testing.T) {
	html := `<html><body><main><h1>Fallback Title</h1><p>Text.</p></main></body></html>`

	doc, err := NewConverter().Convert([]byte(html))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if doc.Title != "Fallback Title" {
		t.Errorf("expected title from H1, got %q", doc.Title)
	}
}

func TestHTMLTitle(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "simple title",
			html:     "<html><head><title>My Page</title></head><body></body></html>",
			expected: "My Page",
		},
		{
			name:     "title with whitespace",
			html:     "<html><head><title>  Spaced Title  </title></head></html>",
			expected: "Spaced Title",
		},
		{
			name:     "no title",
			html:     "<html><head></head><body>Content</body></html>",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlTitle([]byte(tt.html))
			if got != tt.expected {
				t.Errorf("htmlTitle() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTidyMarkdown(t *testing.T) {
	input := "# Title\n\n\n\n\n\nBody text.   \nNext line.\t\n"
	got := tidyMarkdown(input)

	if strings.Contains(got, "\n\n\n\n") {
		t.Errorf("blank run not collapsed:\n%q", got)
	}
	if strings.Contains(got, "text.   ") {
		t.Errorf("trailing spaces not trimmed:\n%q", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Errorf("output not trimmed:\n%q", got)
	}
}

func TestParagraphLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraphs joined per line",
			input:    "First sentence\nwrapped onto two lines.\n\nSecond paragraph.",
			expected: "First sentence wrapped onto two lines.\nSecond paragraph.",
		},
		{
			name:     "leading and trailing blanks dropped",
			input:    "\n\nOnly paragraph.\n\n",
			expected: "Only paragraph.",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paragraphLines(tt.input)
			if got != tt.expected {
				t.Errorf("paragraphLines() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFetcher_Fetch_RejectsInvalidURL(t *testing.T) {
	f := NewFetcher(0, 0)

	tests := []string{
		"http://example.com",
		"https://localhost:9999",
		"https://192.168.0.10/page",
	}

	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			if _, err := f.Fetch(t.Context(), u); err == nil {
				t.Errorf("Fetch(%q) expected validation error", u)
			}
		})
	}
}
