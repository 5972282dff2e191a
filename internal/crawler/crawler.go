package crawler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/seolens/seolens/internal/extract"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/render"
	"github.com/seolens/seolens/internal/urlutil"
)

// Crawler audits a site page by page, breadth-first, through an
// injected renderer.
type Crawler struct {
	renderer render.Renderer

	// maxPages is the hard page budget, degraded records included.
	maxPages int

	// maxLinksPerPage caps discovery per page so one huge sitemap-style
	// page cannot flood the frontier.
	maxLinksPerPage int

	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the page budget. Default is 10.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithMaxLinksPerPage caps how many links a single page may contribute
// to the frontier. Default is 80.
func WithMaxLinksPerPage(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxLinksPerPage = n
		}
	}
}

// WithLogger sets a custom logger for the crawler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler that fetches pages through the given renderer.
func New(renderer render.Renderer, opts ...Option) *Crawler {
	c := &Crawler{
		renderer:        renderer,
		maxPages:        10,
		maxLinksPerPage: 80,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Crawl audits pages starting from site.StartURL and appends them to
// site.Pages in discovery order until the frontier is exhausted or the
// page budget is reached.
//
// Fetch failures produce degraded records and never abort the crawl.
// Cancellation returns ctx.Err() with the pages collected so far intact.
func (c *Crawler) Crawl(ctx context.Context, site *model.Site) error {
	frontier := NewFrontier()
	frontier.Push(site.StartURL)

	for frontier.Len() > 0 && len(site.Pages) < c.maxPages {
		select {
		case <-ctx.Done():
			site.TimedOut = true
			return ctx.Err()
		default:
		}

		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if frontier.Visited(pageURL) {
			continue
		}
		frontier.MarkVisited(pageURL)

		res, err := c.renderer.Fetch(ctx, pageURL)
		if err != nil {
			c.logger.Warn("page failed to render",
				"url", pageURL,
				"error", err,
			)
			site.Pages = append(site.Pages, extract.DegradedPage(pageURL))
			continue
		}

		p := extract.Page(pageURL, res)
		site.Pages = append(site.Pages, p)

		c.logger.Debug("page audited",
			"url", pageURL,
			"status", p.Status,
			"internal_links", p.InternalLinks,
		)

		for _, link := range c.discover(res.FinalURL, res.Links) {
			// Redirects can land on another host; the crawl boundary
			// stays the start host regardless.
			if !urlutil.SameHost(site.StartURL, link) {
				continue
			}
			frontier.Push(link)
		}
	}

	return nil
}

// discover selects the crawlable same-host links a page contributes to
// the frontier, in DOM order, capped at maxLinksPerPage.
//
// Pure section anchors ("#x") are skipped, but "/#x" survives: it
// normalizes to the site root, which is how homepage variants get
// discovered.
func (c *Crawler) discover(finalURL string, links []render.Link) []string {
	out := make([]string, 0, c.maxLinksPerPage)
	for _, l := range links {
		href := strings.TrimSpace(l.Href)
		if href == "" || strings.HasPrefix(href, "#") || urlutil.IsSkippable(href) {
			continue
		}

		abs, err := urlutil.Resolve(finalURL, href)
		if err != nil {
			continue
		}
		abs = urlutil.Normalize(abs)

		if !urlutil.SameHost(finalURL, abs) {
			continue
		}

		out = append(out, abs)
		if len(out) >= c.maxLinksPerPage {
			break
		}
	}
	return out
}
