package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// parseDoc parses HTML into a goquery document. The underlying parser is
// lenient, so this only fails on reader errors.
func parseDoc(htmlContent string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
}

// locate returns every node in doc matched by a single selector value.
func locate(doc *goquery.Document, typ SelectorType, value string) *goquery.Selection {
	switch typ {
	case SelectorClass:
		return doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.HasClass(value)
		})
	case SelectorID:
		return doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, ok := s.Attr("id")
			return ok && id == value
		})
	default:
		return doc.Find(value)
	}
}

// Locate finds every DOM node matching the selector. Malformed HTML or a
// selector that matches nothing yields an empty selection, never an error;
// only the caller knows whether an empty result is fatal.
func Locate(htmlContent string, sel Selector) *goquery.Selection {
	doc, err := parseDoc(htmlContent)
	if err != nil {
		return new(goquery.Selection)
	}
	return locate(doc, sel.Type, sel.Value)
}

// StripElements removes every node matching any of the selector's
// pipe-delimited values and serializes the tree back to HTML. An empty
// value set is the identity transform. This is the pre-fetch pruning pass,
// applied to every fetched page exactly once.
func StripElements(htmlContent string, sel Selector) string {
	values := sel.Values()
	if len(values) == 0 {
		return htmlContent
	}
	doc, err := parseDoc(htmlContent)
	if err != nil {
		return htmlContent
	}
	for _, value := range values {
		locate(doc, sel.Type, value).Remove()
	}
	return serialize(doc, htmlContent)
}

// StripNavigation is the post-fetch pruning pass for non-entry pages: it
// removes the link container itself, then any root-level anchor holding
// only text. Stray top-of-page navigation links disappear while content
// links survive.
func StripNavigation(htmlContent string, container Selector) string {
	doc, err := parseDoc(htmlContent)
	if err != nil {
		return htmlContent
	}
	locate(doc, container.Type, container.Value).Remove()
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		if isRootLevel(node) && textOnly(node) {
			s.Remove()
		}
	})
	return serialize(doc, htmlContent)
}

// isRootLevel reports whether the node's parent is the document, html, or
// body element.
func isRootLevel(node *html.Node) bool {
	parent := node.Parent
	if parent == nil || parent.Type == html.DocumentNode {
		return true
	}
	return parent.Type == html.ElementNode && (parent.Data == "body" || parent.Data == "html")
}

// textOnly reports whether the node has no element children.
func textOnly(node *html.Node) bool {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}

// serialize renders the document tree back to HTML, falling back to the
// original input if rendering fails.
func serialize(doc *goquery.Document, original string) string {
	out, err := doc.Html()
	if err != nil {
		return original
	}
	return out
}
