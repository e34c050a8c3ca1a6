package crawler

import (
	"regexp"
	"strings"
)

var (
	// slugRe keeps word characters and hyphens. Unicode letters and digits
	// stay so non-ASCII page titles remain addressable anchors.
	slugRe = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	// unsafeRe collapses filesystem-hostile characters in cache names.
	unsafeRe = regexp.MustCompile(`[^\w\-.]+`)
)

// PageRecord holds one successfully fetched page. Records are created once
// during the fetch phase and never mutated afterwards.
type PageRecord struct {
	// URL is the canonical, fragment-stripped page URL.
	URL string
	// HTML is the fetched page body after pre-removal pruning.
	HTML string
	// Title is the document title, or the URL path when the page has none.
	Title string
	// AnchorSlug is the intra-document anchor derived from Title.
	AnchorSlug string
}

// PageTable maps canonical URLs to page records in discovery order: the
// entry page first, then links in extraction order. URLs that failed to
// fetch are never inserted.
type PageTable struct {
	order []string
	pages map[string]*PageRecord
}

// NewPageTable builds an empty PageTable.
func NewPageTable() *PageTable {
	return &PageTable{pages: make(map[string]*PageRecord)}
}

// Add inserts a record. A URL already present keeps its first record.
func (t *PageTable) Add(rec *PageRecord) {
	if _, ok := t.pages[rec.URL]; ok {
		return
	}
	t.order = append(t.order, rec.URL)
	t.pages[rec.URL] = rec
}

// Get returns the record for a URL, or nil.
func (t *PageTable) Get(url string) *PageRecord {
	return t.pages[url]
}

// URLs returns the table's keys in insertion order.
func (t *PageTable) URLs() []string {
	return t.order
}

// Len reports the number of stored pages.
func (t *PageTable) Len() int {
	return len(t.order)
}

// Slugify lowercases a title and strips every character outside word
// characters and hyphens. Distinct titles may collide; collisions are not
// resolved and ambiguous anchors resolve to the first occurrence.
func Slugify(title string) string {
	return slugRe.ReplaceAllString(strings.ToLower(title), "")
}

// SafeName converts a URL path into a filesystem-safe name: the leading
// slash is dropped, runs of unsafe characters collapse to '_', and an empty
// result becomes "index".
func SafeName(urlPath string) string {
	urlPath = strings.TrimPrefix(urlPath, "/")
	safe := unsafeRe.ReplaceAllString(urlPath, "_")
	if safe == "" {
		return "index"
	}
	return safe
}
