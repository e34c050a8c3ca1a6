package crawler

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mdtutor/mdtutor/internal/metrics"
	"github.com/mdtutor/mdtutor/internal/storage"
)

// Fetcher retrieves raw HTML for a single URL. A nil error means the body
// was retrieved with a 2xx status; everything else is an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Gate paces successive fetches. Wait blocks until the next request to the
// URL's host may proceed, or the context ends.
type Gate interface {
	Wait(ctx context.Context, url string) error
}

// Crawler sequences the whole pipeline for one job: fetch the entry page,
// locate the link container, extract links, fetch every page, convert and
// rewrite, assemble, persist. Pages are processed strictly sequentially in
// discovery order.
type Crawler struct {
	job     Job
	fetcher Fetcher
	store   storage.Provider
	conv    *Converter
	gate    Gate
	logger  *zap.Logger
}

// New constructs a Crawler for a validated job.
func New(
	job Job,
	fetcher Fetcher,
	store storage.Provider,
	conv *Converter,
	gate Gate,
	logger *zap.Logger,
) *Crawler {
	return &Crawler{
		job:     job,
		fetcher: fetcher,
		store:   store,
		conv:    conv,
		gate:    gate,
		logger:  logger,
	}
}

// Run executes the crawl and returns the path of the assembled document.
// Per-page failures are logged and skipped; a pipeline-level failure aborts
// the run before any output file is written.
func (c *Crawler) Run(ctx context.Context) (string, error) {
	artifact, err := c.run(ctx)
	if err != nil {
		metrics.ObserveRun("failed")
		return "", err
	}
	metrics.ObserveRun("completed")
	return artifact, nil
}

func (c *Crawler) run(ctx context.Context) (string, error) {
	c.logger.Info("starting crawl", zap.String("url", c.job.BaseURL))

	entryHTML, err := c.fetcher.Fetch(ctx, c.job.BaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntryUnavailable, err)
	}

	container := Locate(entryHTML, c.job.Selector)
	if container.Length() == 0 {
		return "", fmt.Errorf("%w: %s=%q", ErrNoContainer, c.job.Selector.Type, c.job.Selector.Value)
	}
	c.logger.Info("located link container", zap.Int("elements", container.Length()))

	norm, err := NewNormalizer(c.job.BaseURL)
	if err != nil {
		return "", fmt.Errorf("normalizer: %w", err)
	}
	links := ExtractLinks(container, norm, c.logger)
	if len(links) == 0 {
		return "", ErrNoLinks
	}

	table, err := c.fetchAll(ctx, links)
	if err != nil {
		return "", err
	}

	bodies := c.convertAll(table)

	document := NewAssembler(c.job.BaseURL).Assemble(table, bodies)

	object := path.Join(c.hostDir(), c.job.Filename)
	if err := c.store.Save(ctx, object, []byte(document)); err != nil {
		return "", &PersistError{Path: object, Err: err}
	}

	artifact := filepath.Join(c.job.OutputDir, filepath.FromSlash(object))
	c.logger.Info("document assembled",
		zap.Int("pages", table.Len()),
		zap.String("path", artifact),
	)
	return artifact, nil
}

// fetchAll retrieves every candidate page in discovery order: the entry
// page first, then each extracted link. A failed fetch is logged and the
// URL is left out of the table.
func (c *Crawler) fetchAll(ctx context.Context, links []string) (*PageTable, error) {
	candidates := dedupe(append([]string{c.job.BaseURL}, links...))
	table := NewPageTable()

	for _, pageURL := range candidates {
		if err := c.gate.Wait(ctx, pageURL); err != nil {
			return nil, fmt.Errorf("rate gate: %w", err)
		}

		raw, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			c.logger.Warn("page fetch failed, skipping",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			metrics.ObservePage(pageURL, "failed", 0)
			continue
		}
		metrics.ObservePage(pageURL, "fetched", len(raw))

		c.cacheHTML(ctx, pageURL, raw)

		pruned := raw
		if c.job.PreRemove != nil {
			pruned = StripElements(raw, *c.job.PreRemove)
		}

		title := pageTitle(raw, cachePath(pageURL))
		table.Add(&PageRecord{
			URL:        pageURL,
			HTML:       pruned,
			Title:      title,
			AnchorSlug: Slugify(title),
		})
	}
	return table, nil
}

// convertAll turns each stored page into link-rewritten Markdown. The entry
// page converts as-is; every other page loses its link container and stray
// root-level navigation anchors first.
func (c *Crawler) convertAll(table *PageTable) map[string]string {
	rewriter := NewLinkRewriter(table)
	bodies := make(map[string]string, table.Len())
	for _, pageURL := range table.URLs() {
		htmlContent := table.Get(pageURL).HTML
		if pageURL != c.job.BaseURL {
			htmlContent = StripNavigation(htmlContent, c.job.Selector)
		}
		md := c.conv.ToMarkdown(htmlContent)
		bodies[pageURL] = rewriter.Rewrite(md, pageURL)
	}
	return bodies
}

// cacheHTML persists the raw fetched HTML under ori_html/<host>/. Cache
// write failures are not fatal.
func (c *Crawler) cacheHTML(ctx context.Context, pageURL string, raw string) {
	object := path.Join("ori_html", c.hostDir(), SafeName(cachePath(pageURL))+".html")
	if err := c.store.Save(ctx, object, []byte(raw)); err != nil {
		c.logger.Warn("html cache write failed",
			zap.String("object", object),
			zap.Error(err),
		)
	}
}

// hostDir derives the per-site output directory from the base URL's host.
func (c *Crawler) hostDir() string {
	u, err := url.Parse(c.job.BaseURL)
	if err != nil {
		return "unknown"
	}
	return SafeName(u.Host)
}

// cachePath maps a page URL to the path its cache name derives from: an
// empty path becomes "index" and a trailing slash gains an "index" suffix.
func cachePath(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Path == "" {
		return "index"
	}
	if strings.HasSuffix(u.Path, "/") {
		return u.Path + "index"
	}
	return u.Path
}

// pageTitle extracts the document title, falling back to the page path.
func pageTitle(rawHTML string, fallback string) string {
	doc, err := parseDoc(rawHTML)
	if err != nil {
		return fallback
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return fallback
	}
	return title
}
