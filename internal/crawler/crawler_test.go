package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/render"
)

// stubRenderer serves canned results keyed by URL and records fetch order.
type stubRenderer struct {
	pages   map[string]*render.Result
	fetched []string
}

func (s *stubRenderer) Fetch(_ context.Context, pageURL string) (*render.Result, error) {
	s.fetched = append(s.fetched, pageURL)
	res, ok := s.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("no route for %s", pageURL)
	}
	return res, nil
}

func (s *stubRenderer) Probe(context.Context, string) bool { return true }

func (s *stubRenderer) Close() error { return nil }

// page builds a minimal rendered result linking to the given hrefs.
func page(finalURL string, hrefs ...string) *render.Result {
	links := make([]render.Link, 0, len(hrefs))
	for _, h := range hrefs {
		links = append(links, render.Link{Href: h})
	}
	return &render.Result{
		FinalURL: finalURL,
		Status:   200,
		LoadTime: 100 * time.Millisecond,
		HTML:     "<html><head><title>t</title></head><body></body></html>",
		Links:    links,
	}
}

func TestCrawlBreadthFirstOrder(t *testing.T) {
	t.Parallel()

	stub := &stubRenderer{pages: map[string]*render.Result{
		"https://example.com/":  page("https://example.com/", "/a", "/b"),
		"https://example.com/a": page("https://example.com/a", "/c"),
		"https://example.com/b": page("https://example.com/b", "/d"),
		"https://example.com/c": page("https://example.com/c"),
		"https://example.com/d": page("https://example.com/d"),
	}}

	site := model.NewSite("https://example.com/")
	c := New(stub, WithMaxPages(10))

	if err := c.Crawl(context.Background(), site); err != nil {
		t.Fatalf("Crawl() error: %v", err)
	}

	want := []string{
		"https://example.com/",
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
		"https://example.com/d",
	}
	if len(site.Pages) != len(want) {
		t.Fatalf("got %d pages, want %d", len(site.Pages), len(want))
	}
	for i, u := range want {
		if site.Pages[i].URL != u {
			t.Errorf("Pages[%d].URL = %q, want %q (breadth-first order)", i, site.Pages[i].URL, u)
		}
	}
}

func TestCrawlBudgetEnforced(t *testing.T) {
	t.Parallel()

	// Ten discoverable links, budget of three: exactly the first three
	// pages in breadth-first order are audited.
	hrefs := make([]string, 0, 10)
	pages := map[string]*render.Result{}
	for i := 0; i < 10; i++ {
		u := fmt.Sprintf("https://example.com/p%d", i)
		hrefs = append(hrefs, fmt.Sprintf("/p%d", i))
		pages[u] = page(u)
	}
	pages["https://example.com/"] = page("https://example.com/", hrefs...)

	stub := &stubRenderer{pages: pages}
	site := model.NewSite("https://example.com/")
	c := New(stub, WithMaxPages(3))

	if err := c.Crawl(context.Background(), site); err != nil {
		t.Fatalf("Crawl() error: %v", err)
	}

	if len(site.Pages) != 3 {
		t.Fatalf("got %d pages, want exactly 3", len(site.Pages))
	}
	want := []string{
		"https://example.com/",
		"https://example.com/p0",
		"https://example.com/p1",
	}
	for i, u := range want {
		if site.Pages[i].URL != u {
			t.Errorf("Pages[%d].URL = %q, want %q", i, site.Pages[i].URL, u)
		}
	}
}

func TestCrawlDeduplicatesAcrossPages(t *testing.T) {
	t.Parallel()

	// /shared is discovered from both / and /a, with and without a
	// fragment; it must be fetched exactly once.
	stub := &stubRenderer{pages: map[string]*render.Result{
		"https://example.com/":       page("https://example.com/", "/a", "/shared"),
		"https://example.com/a":      page("https://example.com/a", "/shared#section"),
		"https://example.com/shared": page("https://example.com/shared"),
	}}

	site := model.NewSite("https://example.com/")
	c := New(stub)

	if err := c.Crawl(context.Background(), site); err != nil {
		t.Fatalf("Crawl() error: %v", err)
	}

	count := 0
	for _, u := range stub.fetched {
		if u == "https://example.com/shared" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared page fetched %d times, want 1", count)
	}
	if len(site.Pages) != 3 {
		t.Errorf("got %d pages, want 3", len(site.Pages))
	}
}

func TestCrawlSkipsOtherHosts(t *testing.T) {
	t.Parallel()

	stub := &stubRenderer{pages: map[string]*render.Result{
		"https://example.com/": page("https://example.com/",
			"https://other.org/x",
			"https://www.example.com/y", // subdomain is a different host
			"/local",
			"mailto:x@example.com",
			"#top",
		),
		"https://example.com/local": page("https://example.com/local"),
	}}

	site := model.NewSite("https://example.com/")
	c := New(stub)

	if err := c.Crawl(context.Background(), site); err != nil {
		t.Fatalf("Crawl() error: %v", err)
	}

	if len(site.Pages) != 2 {
		t.Fatalf("got %d pages, want 2: %v", len(site.Pages), stub.fetched)
	}
	if site.Pages[1].URL != "https://example.com/local" {
		t.Errorf("Pages[1].URL = %q, want /local", site.Pages[1].URL)
	}
}

func TestCrawlDegradedPageOnFetchError(t *testing.T) {
	t.Parallel()

	stub := &stubRenderer{pages: map[string]*render.Result{
		"https://example.com/": page("https://example.com/", "/broken", "/fine"),
		"https://example.com/fine": page("https://example.com/fine"),
		// /broken intentionally unrouted
	}}

	site := model.NewSite("https://example.com/")
	c := New(stub)

	if err := c.Crawl(context.Background(), site); err != nil {
		t.Fatalf("Crawl() must not fail on a page fetch error, got: %v", err)
	}

	if len(site.Pages) != 3 {
		t.Fatalf("got %d pages, want 3 (degraded page counts)", len(site.Pages))
	}

	broken := site.Pages[1]
	if broken.URL != "https://example.com/broken" {
		t.Fatalf("Pages[1].URL = %q, want /broken", broken.URL)
	}
	if broken.Status != 0 {
		t.Errorf("degraded Status = %d, want 0", broken.Status)
	}
	if len(broken.Issues) != 1 {
		t.Errorf("degraded Issues = %v, want exactly one", broken.Issues)
	}
	if len(broken.Wins) != 0 {
		t.Errorf("degraded Wins = %v, want none", broken.Wins)
	}
}

func TestCrawlMaxLinksPerPage(t *testing.T) {
	t.Parallel()

	hrefs := make([]string, 0, 5)
	pages := map[string]*render.Result{}
	for i := 0; i < 5; i++ {
		u := fmt.Sprintf("https://example.com/p%d", i)
		hrefs = append(hrefs, fmt.Sprintf("/p%d", i))
		pages[u] = page(u)
	}
	pages["https://example.com/"] = page("https://example.com/", hrefs...)

	stub := &stubRenderer{pages: pages}
	site := model.NewSite("https://example.com/")
	c := New(stub, WithMaxPages(10), WithMaxLinksPerPage(2))

	if err := c.Crawl(context.Background(), site); err != nil {
		t.Fatalf("Crawl() error: %v", err)
	}

	// Root plus the first two discovered links only.
	if len(site.Pages) != 3 {
		t.Errorf("got %d pages, want 3", len(site.Pages))
	}
}

func TestCrawlCancellation(t *testing.T) {
	t.Parallel()

	stub := &stubRenderer{pages: map[string]*render.Result{
		"https://example.com/": page("https://example.com/", "/a"),
	}}

	site := model.NewSite("https://example.com/")
	c := New(stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Crawl(ctx, site)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Crawl() error = %v, want context.Canceled", err)
	}
	if !site.TimedOut {
		t.Error("TimedOut should be set on cancellation")
	}
	if len(site.Pages) != 0 {
		t.Errorf("got %d pages, want 0", len(site.Pages))
	}
}

func TestFrontier(t *testing.T) {
	t.Parallel()

	f := NewFrontier()

	if !f.Push("https://example.com/a#frag") {
		t.Error("first Push should accept")
	}
	if f.Push("https://example.com/a") {
		t.Error("Push should reject a queued fragment variant")
	}

	u, ok := f.Pop()
	if !ok || u != "https://example.com/a" {
		t.Fatalf("Pop() = (%q, %v), want normalized URL", u, ok)
	}
	f.MarkVisited(u)

	if f.Push("https://example.com/a#other") {
		t.Error("Push should reject a visited URL")
	}
	if !f.Visited("https://example.com/a#whatever") {
		t.Error("Visited should match on normalized form")
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0", f.Len())
	}

	f.Push("https://example.com/b")
	f.Reset()
	if f.Len() != 0 || f.VisitedCount() != 0 {
		t.Error("Reset should clear all state")
	}
	if !f.Push("https://example.com/a") {
		t.Error("Push should accept again after Reset")
	}
}

func TestFrontierFIFO(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	urls := []string{"https://e.com/1", "https://e.com/2", "https://e.com/3"}
	for _, u := range urls {
		f.Push(u)
	}

	var got []string
	for {
		u, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, u)
	}

	if strings.Join(got, ",") != strings.Join(urls, ",") {
		t.Errorf("Pop order = %v, want FIFO %v", got, urls)
	}
}
