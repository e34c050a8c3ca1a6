package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locatePage = `<html><head><title>t</title></head><body>
<div class="nav sidebar">one</div>
<div class="nav">two</div>
<div id="main">three</div>
<nav>four</nav>
</body></html>`

func TestLocate(t *testing.T) {
	t.Parallel()

	t.Run("class matches class list membership", func(t *testing.T) {
		t.Parallel()
		sel := Locate(locatePage, Selector{Type: SelectorClass, Value: "nav"})
		assert.Equal(t, 2, sel.Length())
	})

	t.Run("id matches exact id", func(t *testing.T) {
		t.Parallel()
		sel := Locate(locatePage, Selector{Type: SelectorID, Value: "main"})
		require.Equal(t, 1, sel.Length())
		assert.Equal(t, "three", sel.Text())
	})

	t.Run("tag matches element name", func(t *testing.T) {
		t.Parallel()
		sel := Locate(locatePage, Selector{Type: SelectorTag, Value: "nav"})
		require.Equal(t, 1, sel.Length())
		assert.Equal(t, "four", sel.Text())
	})

	t.Run("no match yields empty selection", func(t *testing.T) {
		t.Parallel()
		sel := Locate(locatePage, Selector{Type: SelectorClass, Value: "missing"})
		assert.Equal(t, 0, sel.Length())
	})
}

func TestStripElements(t *testing.T) {
	t.Parallel()

	t.Run("pipe-delimited values all removed", func(t *testing.T) {
		t.Parallel()
		page := `<html><body>
<div class="ads">ad</div>
<div class="banner">banner</div>
<p>content</p>
</body></html>`
		out := StripElements(page, Selector{Type: SelectorClass, Value: "ads|banner"})
		assert.NotContains(t, out, "ad</div>")
		assert.NotContains(t, out, "banner")
		assert.Contains(t, out, "<p>content</p>")
	})

	t.Run("empty value is identity", func(t *testing.T) {
		t.Parallel()
		page := `<html><body><p>content</p></body></html>`
		assert.Equal(t, page, StripElements(page, Selector{Type: SelectorClass, Value: " | "}))
	})

	t.Run("subtrees removed with their root", func(t *testing.T) {
		t.Parallel()
		page := `<html><body><div id="menu"><ul><li><a href="/x">x</a></li></ul></div><p>keep</p></body></html>`
		out := StripElements(page, Selector{Type: SelectorID, Value: "menu"})
		assert.NotContains(t, out, "href")
		assert.Contains(t, out, "keep")
	})
}

func TestStripNavigation(t *testing.T) {
	t.Parallel()

	t.Run("removes link container", func(t *testing.T) {
		t.Parallel()
		page := `<html><body><div class="toc"><a href="/a">a</a></div><p>body</p></body></html>`
		out := StripNavigation(page, Selector{Type: SelectorClass, Value: "toc"})
		assert.NotContains(t, out, "toc")
		assert.Contains(t, out, "body")
	})

	t.Run("removes text-only root anchors, keeps content links", func(t *testing.T) {
		t.Parallel()
		page := `<html><body>
<a href="/prev">previous page</a>
<p>see <a href="/ref">the reference</a></p>
<a href="/next"><span>next</span></a>
</body></html>`
		out := StripNavigation(page, Selector{Type: SelectorClass, Value: "none"})
		assert.NotContains(t, out, "previous page")
		assert.Contains(t, out, "the reference")
		// Anchor with a nested element is not text-only.
		assert.Contains(t, out, "next")
	})
}
