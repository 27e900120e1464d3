package weburl

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

// Pre-compiled to avoid recompiling per document.
var (
	scriptRe   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	blankRunRe = regexp.MustCompile(`\n{4,}`)
)

// noiseTags are stripped before conversion when no main content element
// is found.
var noiseTags = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	"iframe", "form", "input", "button",
}

// Document is the markdown rendering of a web page.
type Document struct {
	Title    string
	Markdown string
}

// Converter renders HTML pages as GitHub-flavored markdown, preferring
// the main content element and stripping navigation chrome.
type Converter struct {
	md *md.Converter
}

// NewConverter creates an HTML to markdown converter.
func NewConverter() *Converter {
	c := md.NewConverter("", true, nil)
	c.Use(plugin.GitHubFlavored())
	return &Converter{md: c}
}

// Convert transforms HTML content to a markdown document.
func (c *Converter) Convert(htmlContent []byte) (*Document, error) {
	title := htmlTitle(htmlContent)

	markdown, err := c.md.ConvertString(mainContent(htmlContent))
	if err != nil {
		return nil, err
	}
	markdown = tidyMarkdown(markdown)

	if title == "" {
		title = firstHeading(markdown)
	}

	return &Document{Title: title, Markdown: markdown}, nil
}

// htmlTitle extracts the <title> text, or "".
func htmlTitle(content []byte) string {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return ""
	}
	node := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil
	})
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.FirstChild.Data)
}

// mainContent returns the HTML of the page's main content element, or a
// cleaned-up body when none exists.
func mainContent(content []byte) string {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		// Unparsable input still gets the regex cleanup.
		cleaned := scriptRe.ReplaceAllString(string(content), "")
		return styleRe.ReplaceAllString(cleaned, "")
	}

	for _, tag := range []string{"main", "article"} {
		if n := findNode(doc, elementNamed(tag)); n != nil {
			return renderNode(n)
		}
	}
	if n := findNode(doc, hasAttr("role", "main")); n != nil {
		return renderNode(n)
	}

	stripTags(doc, noiseTags)
	if body := findNode(doc, elementNamed("body")); body != nil {
		return renderNode(body)
	}
	return string(content)
}

func elementNamed(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func hasAttr(key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == key && a.Val == val {
				return true
			}
		}
		return false
	}
}

// findNode returns the first node in document order matching the predicate.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

// stripTags removes every element with one of the given tag names.
func stripTags(n *html.Node, tags []string) {
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	var doomed []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && tagSet[node.Data] {
			doomed = append(doomed, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range doomed {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	html.Render(&sb, n)
	return sb.String()
}

// tidyMarkdown trims trailing whitespace and collapses long blank runs.
func tidyMarkdown(content string) string {
	content = blankRunRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// firstHeading returns the first H1 text in markdown, or "".
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
