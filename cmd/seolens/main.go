// Package main provides the entry point for the SEOLens CLI.
//
// SEOLens is a rendered-DOM SEO audit tool for small websites.
// It loads pages in a headless browser, extracts on-page signals,
// and scores the site across six SEO sectors.
//
// Usage:
//
//	seolens audit <site-url>
//	seolens audit --batch <site-url> <site-url> ...
//
// See --help for all available options.
package main

// main is the entry point for SEOLens.
func main() {
	Execute()
}
