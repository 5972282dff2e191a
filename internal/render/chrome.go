package render

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Matches what search engine crawlers send, so sites serve the
// same markup they would serve to Google.
const defaultUserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

const (
	// consentClickTimeout bounds the best-effort cookie banner click.
	consentClickTimeout = 1500 * time.Millisecond

	// settleTimeout bounds each optional wait for late-rendered
	// elements (h1, JSON-LD scripts, anchors). Single-page apps often
	// inject these well after the load event.
	settleTimeout = 2500 * time.Millisecond

	// settlePause is a final grace period after all waits.
	settlePause = 250 * time.Millisecond
)

// Chrome renders pages with a headless Chrome instance driven over the
// DevTools protocol. One browser session is reused for all fetches of a
// run; fetches are sequential, never concurrent.
//
// Design decision: We keep a single tab alive across fetches because:
// 1. Cookie banners accepted once stay accepted for the whole crawl
// 2. Spawning a tab per page roughly doubles per-page latency
// 3. The crawl is sequential anyway, so tab isolation buys nothing
type Chrome struct {
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc

	// tabCtx is the long-lived chromedp context all fetches derive from.
	tabCtx context.Context

	timeout      time.Duration
	cookieAccept string
	userAgent    string
	chromePath   string

	// httpClient performs endpoint probes outside the browser.
	httpClient *http.Client

	logger *slog.Logger
}

// ChromeOption configures a Chrome renderer.
type ChromeOption func(*Chrome)

// WithTimeout sets the per-page render timeout. Default is 25 seconds.
func WithTimeout(d time.Duration) ChromeOption {
	return func(c *Chrome) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCookieAccept sets the label of a cookie consent button to click
// after navigation (e.g. "Accept"). Empty means no click is attempted.
func WithCookieAccept(label string) ChromeOption {
	return func(c *Chrome) {
		c.cookieAccept = label
	}
}

// WithUserAgent overrides the default crawler user agent.
func WithUserAgent(ua string) ChromeOption {
	return func(c *Chrome) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithChromePath sets an explicit Chrome binary path instead of
// relying on auto-detection.
func WithChromePath(path string) ChromeOption {
	return func(c *Chrome) {
		c.chromePath = path
	}
}

// WithRenderLogger sets a custom logger for the renderer.
func WithRenderLogger(logger *slog.Logger) ChromeOption {
	return func(c *Chrome) {
		c.logger = logger
	}
}

// NewChrome creates a Chrome renderer. The browser process itself is
// launched lazily on the first Fetch.
func NewChrome(opts ...ChromeOption) *Chrome {
	c := &Chrome{
		timeout:   25 * time.Second,
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(c.userAgent),
		chromedp.WindowSize(1366, 900),
	}
	if c.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, browserCancel := chromedp.NewContext(allocCtx)

	c.allocCancel = allocCancel
	c.browserCancel = browserCancel
	c.tabCtx = tabCtx
	c.httpClient = &http.Client{Timeout: c.timeout}

	return c
}

// domLink mirrors the anchor data collected in the page context.
type domLink struct {
	Href string   `json:"href"`
	Rel  []string `json:"rel"`
}

const jsonldScript = `Array.from(document.querySelectorAll('script[type="application/ld+json"]')).map(s => s.textContent || '')`

const linksScript = `Array.from(document.querySelectorAll('a[href]')).map(a => ({
	href: a.getAttribute('href') || '',
	rel: (a.getAttribute('rel') || '').split(/\s+/).filter(Boolean).map(t => t.toLowerCase()),
}))`

// Fetch navigates to pageURL in the shared tab and returns the rendered
// page. Load time is measured from navigation start until the DOM
// settle waits finish, which approximates what a user (and a rendering
// crawler) experiences.
func (c *Chrome) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	runCtx, cancel := context.WithTimeout(c.tabCtx, c.timeout)
	defer cancel()

	// Propagate caller cancellation into the chromedp context chain.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()

	resp, err := chromedp.RunResponse(runCtx,
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "en-US,en;q=0.9",
		}),
		chromedp.Navigate(pageURL),
	)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	status := 0
	if resp != nil {
		status = int(resp.Status)
	}

	c.acceptCookies(runCtx)
	c.waitForSettle(runCtx)

	loadTime := time.Since(start)

	var (
		finalURL string
		html     string
		blocks   []string
		rawLinks []domLink
	)
	err = chromedp.Run(runCtx,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(jsonldScript, &blocks),
		chromedp.Evaluate(linksScript, &rawLinks),
	)
	if err != nil {
		return nil, fmt.Errorf("extract DOM of %s: %w", pageURL, err)
	}

	links := make([]Link, 0, len(rawLinks))
	for _, l := range rawLinks {
		href := strings.TrimSpace(l.Href)
		if href == "" {
			continue
		}
		links = append(links, Link{Href: href, Rel: l.Rel})
	}

	c.logger.Debug("page rendered",
		"url", pageURL,
		"status", status,
		"load_time", loadTime,
		"links", len(links),
	)

	return &Result{
		FinalURL: finalURL,
		Status:   status,
		LoadTime: loadTime,
		HTML:     html,
		JSONLD:   blocks,
		Links:    links,
	}, nil
}

// acceptCookies clicks a consent button matching the configured label.
// Best effort: failures and misses are ignored so a stubborn banner
// never sinks a fetch.
func (c *Chrome) acceptCookies(runCtx context.Context) {
	if c.cookieAccept == "" {
		return
	}

	clickCtx, cancel := context.WithTimeout(runCtx, consentClickTimeout)
	defer cancel()

	script := fmt.Sprintf(`(() => {
		const want = %q.toLowerCase();
		const els = document.querySelectorAll('button, [role="button"]');
		for (const el of els) {
			if ((el.textContent || '').toLowerCase().includes(want)) {
				el.click();
				return true;
			}
		}
		return false;
	})()`, c.cookieAccept)

	var clicked bool
	if err := chromedp.Run(clickCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		return
	}
	if clicked {
		_ = chromedp.Run(clickCtx, chromedp.Sleep(300*time.Millisecond)) //nolint:errcheck // best effort
	}
}

// waitForSettle waits briefly for elements that JavaScript frameworks
// render late. Every wait is optional: a missing h1 is a finding, not
// an error.
func (c *Chrome) waitForSettle(runCtx context.Context) {
	selectors := []string{
		"h1",
		`script[type="application/ld+json"]`,
		"a[href]",
	}

	for _, sel := range selectors {
		waitCtx, cancel := context.WithTimeout(runCtx, settleTimeout)
		_ = chromedp.Run(waitCtx, chromedp.WaitReady(sel, chromedp.ByQuery)) //nolint:errcheck // absence is fine
		cancel()
	}

	_ = chromedp.Run(runCtx, chromedp.Sleep(settlePause)) //nolint:errcheck // best effort
}

// Probe checks endpoint reachability with a plain HTTP request, outside
// the browser. HEAD is tried first; servers that reject it get a GET.
// Reachable means the final status after redirects is not an error.
func (c *Chrome) Probe(ctx context.Context, rawURL string) bool {
	if ok, err := c.probeOnce(ctx, http.MethodHead, rawURL); err == nil {
		if ok {
			return true
		}
	}

	ok, err := c.probeOnce(ctx, http.MethodGet, rawURL)
	if err != nil {
		return false
	}
	return ok
}

func (c *Chrome) probeOnce(ctx context.Context, method, rawURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Close shuts down the tab, the browser, and the allocator.
func (c *Chrome) Close() error {
	c.browserCancel()
	c.allocCancel()
	return nil
}
