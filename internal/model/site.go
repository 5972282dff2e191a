package model

import (
	"net/url"
	"time"

	"github.com/seolens/seolens/internal/urlutil"
)

// Site is the site-level audit aggregate. It carries the crawled pages
// in discovery order plus the endpoint checks performed before the crawl.
type Site struct {
	// StartURL is the normalized URL the crawl started from.
	StartURL string `json:"start_url"`

	// Host is the lowercased authority of StartURL. It defines the
	// crawl boundary: only pages on this host are audited.
	Host string `json:"host"`

	// AuditedAt is when the audit started.
	AuditedAt time.Time `json:"audited_at"`

	// Pages holds the audited pages in discovery order.
	// Pages that failed to load are included as degraded records.
	Pages []*Page `json:"pages"`

	// === Well-known endpoints ===

	// RobotsURL, SitemapURL, and LLMSURL are the probed endpoint URLs,
	// derived from the start URL's scheme and host.
	RobotsURL  string `json:"robots_url"`
	SitemapURL string `json:"sitemap_url"`
	LLMSURL    string `json:"llms_url"`

	// RobotsOK, SitemapOK, and LLMSOK are tri-state check results:
	// nil means the check was never performed, false means the probe
	// failed or the endpoint is missing.
	RobotsOK  *bool `json:"robots_ok"`
	SitemapOK *bool `json:"sitemap_ok"`
	LLMSOK    *bool `json:"llms_ok"`

	// === Run state ===

	// TimedOut is true if the audit was cut short by cancellation.
	TimedOut bool `json:"timed_out"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error contains any error that aborted the audit.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewSite creates a Site for the given start URL. The URL is normalized
// and the well-known endpoint URLs are derived from its scheme and host.
func NewSite(startURL string) *Site {
	startURL = urlutil.Normalize(startURL)
	host := urlutil.Host(startURL)

	scheme := "https"
	if u, err := url.Parse(startURL); err == nil && u.Scheme != "" {
		scheme = u.Scheme
	}
	base := scheme + "://" + host

	return &Site{
		StartURL:   startURL,
		Host:       host,
		AuditedAt:  time.Now(),
		Pages:      make([]*Page, 0),
		RobotsURL:  base + "/robots.txt",
		SitemapURL: base + "/sitemap.xml",
		LLMSURL:    base + "/llms.txt",
	}
}

// PageCount returns the number of audited pages, degraded records included.
func (s *Site) PageCount() int {
	return len(s.Pages)
}
