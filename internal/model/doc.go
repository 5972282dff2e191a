// Package model defines the core data structures used throughout seolens.
//
// This package contains the following main types:
//   - Page: The audit record for a single rendered page
//   - Site: The site-level aggregate built during a crawl
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, extract, score, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
