package pipeline

import (
	"context"
	"log/slog"

	"github.com/seolens/seolens/internal/config"
	"github.com/seolens/seolens/internal/crawler"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/render"
)

// EndpointStep probes the site's well-known crawlability endpoints:
// robots.txt, sitemap.xml, and llms.txt.
//
// Design decision: Endpoint checks are a separate step because:
// 1. They run over plain HTTP and don't need the browser
// 2. Their results feed the crawlability sector independently of pages
// 3. Can be skipped when only page signals are wanted
type EndpointStep struct {
	// renderer provides the Probe method used for the HTTP checks.
	renderer render.Renderer

	// logger for structured logging.
	logger *slog.Logger
}

// EndpointStepOption configures an EndpointStep.
type EndpointStepOption func(*EndpointStep)

// WithEndpointLogger sets a custom logger for the endpoint step.
func WithEndpointLogger(logger *slog.Logger) EndpointStepOption {
	return func(s *EndpointStep) {
		s.logger = logger
	}
}

// NewEndpointStep creates a new well-known endpoint check step.
func NewEndpointStep(renderer render.Renderer, opts ...EndpointStepOption) *EndpointStep {
	s := &EndpointStep{
		renderer: renderer,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *EndpointStep) Name() string {
	return "endpoint_check"
}

// Do executes the endpoint checks. Each probe result lands in the
// site's tri-state fields; a probe that never runs leaves nil.
func (s *EndpointStep) Do(ctx context.Context, site *model.Site) error {
	checks := []struct {
		name   string
		url    string
		result **bool
	}{
		{"robots.txt", site.RobotsURL, &site.RobotsOK},
		{"sitemap.xml", site.SitemapURL, &site.SitemapOK},
		{"llms.txt", site.LLMSURL, &site.LLMSOK},
	}

	for _, check := range checks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ok := s.renderer.Probe(ctx, check.url)
		*check.result = &ok

		s.logger.Debug("endpoint checked",
			"endpoint", check.name,
			"url", check.url,
			"ok", ok,
		)
	}

	return nil
}

// CrawlStep performs the rendered breadth-first crawl of the target site.
// This step discovers pages, extracts their signals, and appends the audit
// records in discovery order.
//
// Design decision: Crawling is separate from endpoint checks because:
// 1. It has different configuration (page budget, per-page link cap)
// 2. It produces different data (page records vs endpoint booleans)
// 3. It is the expensive part and benefits from its own cancellation story
type CrawlStep struct {
	// renderer is the browsing session pages are fetched through.
	renderer render.Renderer

	// maxPages limits total pages to audit, degraded records included.
	maxPages int

	// maxLinksPerPage caps discovery per page.
	maxLinksPerPage int

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlMaxPages sets the maximum pages to audit.
func WithCrawlMaxPages(maxPages int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxPages = maxPages
	}
}

// WithCrawlMaxLinksPerPage sets how many links a single page may
// contribute to the crawl frontier.
func WithCrawlMaxLinksPerPage(n int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxLinksPerPage = n
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawling step over the given renderer.
func NewCrawlStep(renderer render.Renderer, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		renderer:        renderer,
		maxPages:        config.DefaultMaxPages,
		maxLinksPerPage: config.DefaultMaxLinksPerPage,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, site *model.Site) error {
	c := crawler.New(s.renderer,
		crawler.WithMaxPages(s.maxPages),
		crawler.WithMaxLinksPerPage(s.maxLinksPerPage),
		crawler.WithLogger(s.logger),
	)

	if err := c.Crawl(ctx, site); err != nil {
		// Partial results are kept; cancellation is still reported so the
		// pipeline can stop before later steps run.
		s.logger.Warn("crawl cut short", "error", err, "pages", site.PageCount())
		return err
	}

	s.logger.Info("crawl completed",
		"pages_audited", site.PageCount(),
	)

	return nil
}

// CloseStep shuts down the browsing session once the audit is done.
//
// Design decision: Teardown is a pipeline step rather than a caller-side
// defer because:
// 1. Batch runs create one renderer per site and the pipeline owns it
// 2. Close latency shows up in the step log like any other stage
// 3. A close failure is visible but never fails the audit
type CloseStep struct {
	// renderer is the session to close.
	renderer render.Renderer

	// logger for structured logging.
	logger *slog.Logger
}

// NewCloseStep creates a step that closes the renderer.
func NewCloseStep(renderer render.Renderer) *CloseStep {
	return &CloseStep{
		renderer: renderer,
		logger:   slog.Default(),
	}
}

// Name returns the step name.
func (s *CloseStep) Name() string {
	return "close_browser"
}

// Do closes the browsing session. Errors are logged, not returned:
// the audit data is already collected at this point.
func (s *CloseStep) Do(_ context.Context, _ *model.Site) error {
	if err := s.renderer.Close(); err != nil {
		s.logger.Warn("browser close failed", "error", err)
	}
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// MaxPages is the page budget for the crawl.
	MaxPages int

	// MaxLinksPerPage caps discovery per page.
	MaxLinksPerPage int
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineMaxPages sets the page budget for the pipeline's crawl step.
func WithPipelineMaxPages(maxPages int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxPages = maxPages
	}
}

// WithPipelineMaxLinksPerPage sets the per-page discovery cap for the
// pipeline's crawl step.
func WithPipelineMaxLinksPerPage(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxLinksPerPage = n
	}
}

// DefaultPipeline creates a pipeline with all default steps configured.
// This is the standard pipeline for a full site audit: endpoint checks,
// the rendered crawl, then browser teardown.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want the full audit
// 2. Reduces boilerplate in CLI
// 3. Ensures consistent ordering
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineMaxPages, etc).
func DefaultPipeline(renderer render.Renderer, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		MaxPages:        config.DefaultMaxPages,
		MaxLinksPerPage: config.DefaultMaxLinksPerPage,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewEndpointStep(renderer, WithEndpointLogger(p.logger)),
		NewCrawlStep(renderer,
			WithCrawlMaxPages(cfg.MaxPages),
			WithCrawlMaxLinksPerPage(cfg.MaxLinksPerPage),
			WithCrawlLogger(p.logger),
		),
		NewCloseStep(renderer),
	)

	return p
}
