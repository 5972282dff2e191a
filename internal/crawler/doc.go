// Package crawler walks a site breadth-first and builds the audit record
// for every page it visits.
//
// # Architecture
//
// The crawler package is designed around two types:
//
//   - Frontier: the FIFO queue plus queued/visited sets, keyed by
//     normalized URL, that drives breadth-first ordering
//   - Crawler: the orchestrator that pops URLs, renders them, extracts
//     signals, and enqueues newly discovered same-host links
//
// Design decision: We implement our own frontier rather than using a
// crawling framework because:
//  1. The audit needs strict breadth-first discovery order for stable,
//     reproducible reports
//  2. Fetching goes through a shared headless-browser session, which
//     frameworks built around HTTP clients cannot drive
//  3. The budgets involved are tiny (tens of pages), so framework
//     machinery buys nothing
//
// # Failure policy
//
// A page that fails to render still consumes crawl budget: it enters the
// site as a degraded record with a single issue. Fetch errors never
// abort the crawl and are never retried.
//
// # Usage
//
//	c := crawler.New(renderer, crawler.WithMaxPages(10))
//	err := c.Crawl(ctx, site)
//
// # Concurrency
//
// The crawl is strictly sequential and the Frontier is not synchronized.
// One browsing session, one page at a time; discovery order is part of
// the contract.
package crawler
