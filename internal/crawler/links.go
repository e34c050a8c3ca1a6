package crawler

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ExtractLinks walks every anchor with an href inside the located elements,
// normalizes each one against the crawl base, and returns the survivors
// deduplicated in first-occurrence order. An empty result means the
// container held no usable links.
func ExtractLinks(elements *goquery.Selection, norm *Normalizer, logger *zap.Logger) []string {
	var links []string
	elements.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		normalized, ok := norm.Normalize(href)
		if !ok {
			logger.Debug("skipping link", zap.String("href", href))
			return
		}
		links = append(links, normalized)
	})
	deduped := dedupe(links)
	logger.Info("extracted links",
		zap.Int("found", len(links)),
		zap.Int("unique", len(deduped)),
	)
	return deduped
}
