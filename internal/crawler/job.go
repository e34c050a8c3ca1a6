// Package crawler implements the crawl-and-convert pipeline: page retrieval,
// link discovery inside a configured container element, HTML pruning,
// Markdown conversion, cross-page link rewriting, and document assembly.
package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// SelectorType enumerates the supported ways to address DOM nodes.
type SelectorType string

// Selector families. "class" matches nodes whose class list contains the
// value, "id" matches nodes whose id equals the value, "tag" matches nodes
// by element name.
const (
	SelectorClass SelectorType = "class"
	SelectorID    SelectorType = "id"
	SelectorTag   SelectorType = "tag"
)

// tagNameRe restricts tag selector values to plain element names so they can
// be handed to the CSS selector engine verbatim.
var tagNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// Selector addresses DOM nodes by one of the three selector families.
type Selector struct {
	Type  SelectorType
	Value string
}

// Validate rejects unknown selector families and unusable values.
func (s Selector) Validate() error {
	switch s.Type {
	case SelectorClass, SelectorID, SelectorTag:
	default:
		return fmt.Errorf("unsupported selector type: %q", s.Type)
	}
	if strings.TrimSpace(s.Value) == "" {
		return fmt.Errorf("selector value must not be empty")
	}
	if s.Type == SelectorTag {
		for _, v := range s.Values() {
			if !tagNameRe.MatchString(v) {
				return fmt.Errorf("invalid tag name: %q", v)
			}
		}
	}
	return nil
}

// Values splits a pipe-delimited selector value into its individual targets.
// A plain value yields a single-element slice.
func (s Selector) Values() []string {
	parts := strings.Split(s.Value, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Job captures every input of a single crawl run. It is validated once and
// immutable afterwards.
type Job struct {
	// BaseURL is the entry page from which all sub-pages are discovered.
	BaseURL string
	// Selector addresses the link container on the entry page.
	Selector Selector
	// PreRemove, when non-nil, names elements stripped from every fetched
	// page before any further processing. Its Value may be pipe-delimited.
	PreRemove *Selector
	// Filename is the name of the assembled Markdown artifact.
	Filename string
	// OutputDir is the root under which the artifact and the HTML cache
	// are written.
	OutputDir string
}

// DefaultFilename is used when the caller does not name the artifact.
const DefaultFilename = "tutorial.md"

// Validate checks the job and normalizes defaulted fields. The entry URL is
// fragment-stripped here so the crawl identity of the base page matches the
// identity used for every discovered link.
func (j *Job) Validate() error {
	u, err := url.Parse(strings.TrimSpace(j.BaseURL))
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url must be http(s), got %q", j.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base url has no host: %q", j.BaseURL)
	}
	j.BaseURL = stripFragment(u.String())

	if err := j.Selector.Validate(); err != nil {
		return fmt.Errorf("container selector: %w", err)
	}
	if j.PreRemove != nil {
		if err := j.PreRemove.Validate(); err != nil {
			return fmt.Errorf("pre-remove selector: %w", err)
		}
	}
	if j.Filename == "" {
		j.Filename = DefaultFilename
	}
	if j.OutputDir == "" {
		return fmt.Errorf("output directory must be set")
	}
	return nil
}
