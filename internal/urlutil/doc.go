// Package urlutil provides URL normalization and classification helpers
// shared by the crawler and the page extractor.
package urlutil
