// Package log provides logging for SEOLens, built on top of the standard
// slog package.
//
// Audit logging deals in bulky values: rendered HTML fragments, link
// lists, JSON-LD blocks. The TruncatingHandler caps oversized string
// attributes so a single page dump cannot drown the log stream, while
// short operational attributes pass through untouched.
//
// # Usage
//
//	// Create a logger writing human-readable output
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("page rendered",
//	    "url", "https://example.com",
//	    "html", htmlDump, // Capped at MaxAttrLen
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
