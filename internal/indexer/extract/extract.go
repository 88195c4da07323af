// Package extract turns fetched HTML into plain text.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Extractor pulls the indexable text out of an HTML document.
type Extractor interface {
	Extract(rawHTML, pageURL string) (string, error)
}

type ExtractorType string

const (
	ParagraphsExtractorType  ExtractorType = "paragraphs"
	ReadabilityExtractorType ExtractorType = "readability"
)

func NewExtractor(extractorType ExtractorType) (Extractor, error) {
	switch extractorType {
	case ParagraphsExtractorType, "":
		return Paragraphs{}, nil
	case ReadabilityExtractorType:
		return Readability{}, nil
	default:
		return nil, fmt.Errorf("unsupported extractor type %q", extractorType)
	}
}

var paragraphSelector = cascadia.MustCompile("p")

// Paragraphs joins the text of every <p> element with single spaces.
type Paragraphs struct{}

func (Paragraphs) Extract(rawHTML, _ string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	nodes := paragraphSelector.MatchAll(doc)
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, nodeText(n))
	}
	return strings.Join(parts, " "), nil
}

// nodeText concatenates every descendant text node, like a DOM's textContent.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Readability keeps only the main article body.
type Readability struct{}

func (Readability) Extract(rawHTML, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	return strings.TrimSpace(article.TextContent), nil
}
