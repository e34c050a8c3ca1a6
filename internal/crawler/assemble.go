package crawler

import (
	"fmt"
	"strings"
)

// Assembler concatenates the converted pages into the final document: a
// main-link banner, a table of contents, then one section per page.
type Assembler struct {
	baseURL string
}

// NewAssembler builds an Assembler for the given entry URL.
func NewAssembler(baseURL string) *Assembler {
	return &Assembler{baseURL: baseURL}
}

// Assemble renders the document. Pages appear in table order; bodies maps
// each URL to its converted, link-rewritten Markdown.
func (a *Assembler) Assemble(table *PageTable, bodies map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "> **Main link: [%s](%s)**\n\n", a.baseURL, a.baseURL)

	b.WriteString("# Contents\n")
	for _, u := range table.URLs() {
		rec := table.Get(u)
		fmt.Fprintf(&b, "\n- [%s](#%s)", rec.Title, rec.AnchorSlug)
	}
	b.WriteString("\n\n---\n\n")

	for _, u := range table.URLs() {
		rec := table.Get(u)
		fmt.Fprintf(&b, "# %s\n\n", rec.Title)
		b.WriteString(bodies[u])
		b.WriteString("\n\n---\n\n")
	}

	return b.String()
}
