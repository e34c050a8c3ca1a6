package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	mdLinkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdImageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
)

// anchorEntry pairs a crawled URL with its document anchor. Entries keep
// PageTable order so trailing-slash matches resolve deterministically.
type anchorEntry struct {
	url  string
	slug string
}

// LinkRewriter rewrites Markdown link and image targets after conversion:
// links to crawled pages become local anchors, other non-absolute targets
// become fully-qualified URLs. It operates purely on Markdown syntax via
// pattern matching; see StripNavigation for the DOM-side cleanup. Swapping
// this for a pre-conversion DOM rewrite only requires replacing this type.
type LinkRewriter struct {
	anchors []anchorEntry
}

// NewLinkRewriter derives the anchor table from the page table.
func NewLinkRewriter(table *PageTable) *LinkRewriter {
	r := &LinkRewriter{}
	for _, u := range table.URLs() {
		r.anchors = append(r.anchors, anchorEntry{url: u, slug: table.Get(u).AnchorSlug})
	}
	return r
}

// Rewrite applies the link pattern and then the image pattern once each over
// the whole text. Relative targets resolve against the page's own URL.
func (r *LinkRewriter) Rewrite(md string, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	md = mdLinkRe.ReplaceAllStringFunc(md, func(match string) string {
		m := mdLinkRe.FindStringSubmatch(match)
		text, href := m[1], m[2]
		if slug, ok := r.lookupAnchor(href); ok {
			return fmt.Sprintf("[%s](#%s)", text, slug)
		}
		if !isAbsolute(href) && !strings.HasPrefix(href, "#") {
			href = resolveAgainst(base, href)
		}
		return fmt.Sprintf("[%s](%s)", text, href)
	})

	return mdImageRe.ReplaceAllStringFunc(md, func(match string) string {
		m := mdImageRe.FindStringSubmatch(match)
		alt, src := m[1], m[2]
		if !isAbsolute(src) {
			src = resolveAgainst(base, src)
		}
		return fmt.Sprintf("![%s](%s)", alt, src)
	})
}

// lookupAnchor finds the slug for a crawled page URL, tolerating a trailing
// slash difference.
func (r *LinkRewriter) lookupAnchor(href string) (string, bool) {
	for _, e := range r.anchors {
		if href == e.url || strings.TrimRight(href, "/") == strings.TrimRight(e.url, "/") {
			return e.slug, true
		}
	}
	return "", false
}

func isAbsolute(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// resolveAgainst joins target with base, returning target untouched when it
// cannot be resolved.
func resolveAgainst(base *url.URL, target string) string {
	if base == nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	return base.ResolveReference(ref).String()
}
