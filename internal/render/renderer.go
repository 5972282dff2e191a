package render

import (
	"context"
	"time"
)

// Renderer loads pages the way a modern search engine does: with a real
// browser engine executing JavaScript before anything is extracted.
type Renderer interface {
	// Fetch navigates to pageURL, waits for the DOM to settle, and
	// returns everything observed. Implementations must respect ctx
	// cancellation in addition to their own timeouts.
	Fetch(ctx context.Context, pageURL string) (*Result, error)

	// Probe checks whether an auxiliary endpoint (robots.txt and
	// friends) is reachable. Any failure reads as false; probes never
	// return errors.
	Probe(ctx context.Context, rawURL string) bool

	// Close releases the browser session. The renderer is unusable
	// afterwards.
	Close() error
}

// Result is everything observed while rendering a single page.
type Result struct {
	// FinalURL is the location after redirects.
	FinalURL string

	// Status is the HTTP status of the main document, 0 if unknown.
	Status int

	// LoadTime spans navigation start to DOM settle.
	LoadTime time.Duration

	// HTML is the serialized rendered DOM, not the raw response body.
	HTML string

	// JSONLD holds the text content of every
	// <script type="application/ld+json"> block in the live DOM.
	JSONLD []string

	// Links holds every a[href] element in the live DOM.
	Links []Link
}

// Link pairs an anchor's raw href attribute with its rel tokens.
// Rel tokens are lowercased; the href is kept verbatim apart from
// surrounding whitespace.
type Link struct {
	Href string
	Rel  []string
}
