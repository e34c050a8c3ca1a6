package crawler

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"
)

var (
	anchorTagRe   = regexp.MustCompile(`(?is)<a [^>]*>(.*?)</a>`)
	selfClosedARe = regexp.MustCompile(`(?is)<a [^>]*/>`)
)

// Converter turns page HTML into Markdown. The conversion itself is
// delegated to the html-to-markdown library; the post-processing collapses
// blank-line runs and strips anchor tags that survive conversion.
type Converter struct {
	logger *zap.Logger
}

// NewConverter builds a Converter.
func NewConverter(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// ToMarkdown converts HTML to cleaned Markdown. Conversion failure never
// propagates: the result degrades to an explanatory message followed by the
// untouched original HTML.
func (c *Converter) ToMarkdown(htmlContent string) string {
	md, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		c.logger.Error("markdown conversion failed", zap.Error(err))
		return fmt.Sprintf("conversion failed: %v\n\noriginal content:\n%s", err, htmlContent)
	}
	md = CollapseBlankLines(md)
	return stripAnchorTags(md)
}

// CollapseBlankLines reduces every run of two or more blank lines to a
// single blank line. The operation is idempotent.
func CollapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				out = append(out, line)
			}
			prevBlank = true
			continue
		}
		out = append(out, line)
		prevBlank = false
	}
	return strings.Join(out, "\n")
}

// stripAnchorTags unwraps <a ...>text</a> pairs and drops self-closing
// anchors, case-insensitively and across line boundaries.
func stripAnchorTags(md string) string {
	md = anchorTagRe.ReplaceAllString(md, "$1")
	return selfClosedARe.ReplaceAllString(md, "")
}
