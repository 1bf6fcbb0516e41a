package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements whose text never renders as page content. noscript, iframe,
// noembed and noframes are parsed as raw text, so their children may hold
// unparsed markup.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Noembed:  true,
	atom.Noframes: true,
}

// ExtractionError means a fetched document could not be parsed.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the visible text of the document body with whitespace
// collapsed. A document with an empty body yields "".
func (e *Extractor) Extract(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", &ExtractionError{Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}

	return Normalize(bodyText(doc)), nil
}

func bodyText(doc *goquery.Document) string {
	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		collectText(n, &b)
	}
	return b.String()
}

// collectText appends text nodes under n in document order.
func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// Normalize collapses every whitespace run into a single space and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
