package crawler

import "github.com/seolens/seolens/internal/urlutil"

// Frontier is the breadth-first crawl frontier: a FIFO queue of URLs to
// visit plus the sets that guarantee no normalized URL is processed
// twice in a run. All keys are normalized with urlutil.Normalize, so
// fragment variants of the same page collapse into one entry.
//
// Frontier is not safe for concurrent use. The crawl is sequential and
// the strict discovery-order guarantee depends on that.
type Frontier struct {
	queue   []string
	queued  map[string]bool
	visited map[string]bool
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		queue:   make([]string, 0),
		queued:  make(map[string]bool),
		visited: make(map[string]bool),
	}
}

// Push enqueues a URL unless its normalized form is already queued or
// visited. It reports whether the URL was accepted.
func (f *Frontier) Push(rawURL string) bool {
	n := urlutil.Normalize(rawURL)
	if n == "" || f.queued[n] || f.visited[n] {
		return false
	}
	f.queue = append(f.queue, n)
	f.queued[n] = true
	return true
}

// Pop removes and returns the oldest queued URL.
// The second return is false when the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.queued, u)
	return u, true
}

// MarkVisited records a URL as processed so it can never be re-enqueued
// this run.
func (f *Frontier) MarkVisited(rawURL string) {
	f.visited[urlutil.Normalize(rawURL)] = true
}

// Visited reports whether a URL was already processed this run.
func (f *Frontier) Visited(rawURL string) bool {
	return f.visited[urlutil.Normalize(rawURL)]
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// VisitedCount returns how many URLs have been processed.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}

// Reset clears all frontier state, allowing reuse for another run.
func (f *Frontier) Reset() {
	f.queue = f.queue[:0]
	f.queued = make(map[string]bool)
	f.visited = make(map[string]bool)
}
