package model

import (
	"strings"
	"time"
)

// Page is the audit record for a single crawled page.
// All fields describe the rendered DOM, not the raw HTTP response body,
// so JavaScript-injected tags and links are included.
//
// Design decision: We store extracted signals rather than the page HTML
// because:
// 1. Reports and scoring only need the signals
// 2. Rendered DOMs are large and would bloat the history database
// 3. Signals serialize cleanly to JSON for the report envelope
type Page struct {
	// URL is the requested URL (normalized, fragment stripped).
	URL string `json:"url"`

	// FinalURL is the URL after redirects. Equals URL when the page
	// could not be loaded.
	FinalURL string `json:"final_url"`

	// Status is the HTTP status code of the main document.
	// 0 means unknown: the page failed to load in the browser.
	Status int `json:"status"`

	// LoadTime is how long the page took to render, from navigation
	// start until the DOM settled.
	LoadTime time.Duration `json:"load_time"`

	// === Metadata ===

	// Title is the text of the <title> element.
	Title string `json:"title,omitempty"`

	// Description is the content of <meta name="description">.
	Description string `json:"description,omitempty"`

	// MetaRobots is the content of the robots meta tag.
	MetaRobots string `json:"meta_robots,omitempty"`

	// Canonical is the canonical URL, resolved to absolute form
	// against FinalURL.
	Canonical string `json:"canonical,omitempty"`

	// Lang is the lang attribute of the <html> element.
	Lang string `json:"lang,omitempty"`

	// HasViewport is true if a viewport meta tag is present.
	HasViewport bool `json:"has_viewport"`

	// OG maps OpenGraph properties (og:*) to their content.
	OG map[string]string `json:"og,omitempty"`

	// Twitter maps Twitter card properties (twitter:*) to their content.
	Twitter map[string]string `json:"twitter,omitempty"`

	// === Structure & content ===

	// H1, H2, and H3 hold the heading texts in document order,
	// whitespace collapsed.
	H1 []string `json:"h1,omitempty"`
	H2 []string `json:"h2,omitempty"`
	H3 []string `json:"h3,omitempty"`

	// WordCount is the number of whitespace-separated words in the
	// visible text (script, style, and noscript excluded).
	WordCount int `json:"word_count"`

	// === Links ===

	// InternalLinks counts links resolving to the same host.
	// Anchor links are included here as well.
	InternalLinks int `json:"internal_links"`

	// ExternalLinks counts links resolving to a different host.
	ExternalLinks int `json:"external_links"`

	// AnchorLinks counts same-page section links ("#x", "/#x").
	AnchorLinks int `json:"anchor_links"`

	// NofollowLinks counts links carrying a nofollow rel token.
	NofollowLinks int `json:"nofollow_links"`

	// === Media ===

	// Images is the number of <img> elements in the rendered DOM.
	Images int `json:"images"`

	// ImagesMissingAlt counts images with no alt attribute or a
	// whitespace-only one.
	ImagesMissingAlt int `json:"images_missing_alt"`

	// === Structured data ===

	// SchemaTypes holds the deduplicated, sorted @type values found
	// in JSON-LD blocks.
	SchemaTypes []string `json:"schema_types,omitempty"`

	// === Findings ===

	// Wins lists positive findings in the fixed rule order.
	Wins []string `json:"wins,omitempty"`

	// Issues lists problems in the fixed rule order.
	Issues []string `json:"issues,omitempty"`
}

// NewPage creates an empty audit record for the given URL.
// FinalURL defaults to the requested URL until a redirect is observed.
func NewPage(pageURL string) *Page {
	return &Page{
		URL:      pageURL,
		FinalURL: pageURL,
		OG:       make(map[string]string),
		Twitter:  make(map[string]string),
	}
}

// HasSocialMeta reports whether the page carries any OpenGraph or
// Twitter card metadata.
func (p *Page) HasSocialMeta() bool {
	return len(p.OG) > 0 || len(p.Twitter) > 0
}

// NoIndex reports whether the robots meta tag asks search engines
// not to index the page. The check is a case-insensitive substring
// match, so "noindex, nofollow" counts.
func (p *Page) NoIndex() bool {
	return p.MetaRobots != "" && strings.Contains(strings.ToLower(p.MetaRobots), "noindex")
}

// LoadSeconds returns the load time in seconds.
func (p *Page) LoadSeconds() float64 {
	return p.LoadTime.Seconds()
}
