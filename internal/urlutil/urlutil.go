package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize canonicalizes a URL for deduplication.
//
// Design decision: We normalize at the string level rather than through
// url.Parse because:
//  1. Fragments (#section) never change the served content
//  2. Malformed URLs still need a stable dedup key
//  3. Anything beyond fragment stripping (query reordering, trailing
//     slashes) risks merging URLs that serve different content
//
// The operation is idempotent: Normalize(Normalize(u)) == Normalize(u).
func Normalize(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Host returns the lowercased authority of a URL, or "" when the URL
// has no parseable authority.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// SameHost reports whether two URLs share the same authority,
// compared case-insensitively. Scheme, path, and port representation
// differences are ignored on purpose: the crawl boundary is the host.
func SameHost(a, b string) bool {
	return Host(a) == Host(b)
}

// IsAnchor reports whether a raw href points at a section of the
// current page rather than another document:
//
//	"#section"
//	"/#section"
//
// Full URLs with fragments ("https://site.com/#x") are not anchors here;
// they are resolved and classified by host like any other link.
func IsAnchor(href string) bool {
	href = strings.TrimSpace(href)
	return strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/#")
}

// IsSkippable reports whether a raw href uses a scheme that never leads
// to a crawlable document.
func IsSkippable(href string) bool {
	href = strings.TrimSpace(href)
	return strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:")
}

// Resolve resolves href against base and returns the absolute URL.
func Resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}

	return b.ResolveReference(ref).String(), nil
}
