package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalizer resolves raw href values against the crawl's base URL and
// strips fragments so that two URLs differing only by fragment share one
// crawl identity.
type Normalizer struct {
	base *url.URL
}

// NewNormalizer builds a Normalizer for the given base URL.
func NewNormalizer(baseURL string) (*Normalizer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Normalizer{base: u}, nil
}

// Normalize resolves href and reports whether the result is a crawlable
// link. Absolute http(s) hrefs pass through, protocol-relative hrefs inherit
// the base scheme, root-relative hrefs are joined with the base scheme and
// host, and everything else is resolved with standard relative resolution.
// Fragment-only, javascript: and fragment-final-segment links are rejected.
func (n *Normalizer) Normalize(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}

	var resolved string
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		resolved = href
	case strings.HasPrefix(href, "//"):
		resolved = n.base.Scheme + ":" + href
	case strings.HasPrefix(href, "/"):
		resolved = n.base.Scheme + "://" + n.base.Host + href
	default:
		ref, err := url.Parse(href)
		if err != nil {
			return "", false
		}
		resolved = n.base.ResolveReference(ref).String()
	}

	// Links whose last path segment is a bare fragment point back into the
	// page they appear on.
	if seg := resolved[strings.LastIndex(resolved, "/")+1:]; strings.HasPrefix(seg, "#") {
		return "", false
	}
	return stripFragment(resolved), true
}

// stripFragment drops everything from the first '#' on.
func stripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// dedupe removes repeated URLs preserving first-occurrence order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
