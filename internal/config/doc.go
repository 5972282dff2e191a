// Package config provides configuration structures and utilities for
// SEOLens. It defines the main configuration options for auditing sites,
// crawl budgets, browser settings, and report generation preferences.
package config
