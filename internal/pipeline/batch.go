package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/seolens/seolens/internal/config"
	"github.com/seolens/seolens/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent auditing of multiple sites.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-audit execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each audit.
	// Each audit needs its own pipeline because the pipeline owns a
	// browsing session, and one session serves one site at a time.
	// The factory can fail (e.g., Chrome missing); that failure is
	// recorded on the site instead of aborting the batch.
	pipelineFactory func(target string) (*Pipeline, error)

	// concurrency is the maximum number of concurrent audits.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed site records.
	// Access is synchronized via mutex.
	results []*model.Site
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
// The default is conservative because every audit runs its own
// headless browser.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each audit to create a fresh
// pipeline instance. This ensures that pipeline state (including the
// browsing session) doesn't leak between audits.
func NewBatchProcessor(pipelineFactory func(target string) (*Pipeline, error), opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     config.DefaultBatchConcurrency,
		results:         make([]*model.Site, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch audits multiple sites concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each site gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all site records collected, even for audits that failed.
// The error return indicates if the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.Site, error) {
	bp.logger.Info("starting batch processing",
		"total_sites", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.Site, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("auditing site",
				"site", target,
				"index", i+1,
				"total", len(targets),
			)

			site := bp.auditOne(ctx, target)

			// Store result regardless of error
			// The site record carries error information if the audit failed
			bp.mu.Lock()
			bp.results[i] = site
			bp.mu.Unlock()

			if site.Error != nil {
				bp.logger.Warn("audit failed",
					"site", target,
					"error", site.Error,
				)
				// Don't return the error to errgroup - we want to continue
				// other audits. The error is recorded on the site.
				return nil
			}

			bp.logger.Info("audit completed",
				"site", target,
				"pages", site.PageCount(),
			)

			return nil
		})
	}

	// Wait for all audits to complete
	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch processing complete",
		"total_sites", len(targets),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback audits multiple sites and calls a callback
// for each completed audit. This is useful for streaming results.
//
// The callback receives the site record and the index of the target in
// the original slice. The callback is called from the goroutine that
// completed the audit, so it should be thread-safe if it accesses
// shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(site *model.Site, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_sites", len(targets),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			site := bp.auditOne(ctx, target)

			// Call the callback with the result
			callback(site, i)

			return nil
		})
	}

	return g.Wait()
}

// auditOne creates a site record and a fresh pipeline for the target and
// runs the audit. Failures end up on the site record, never as a return.
func (bp *BatchProcessor) auditOne(ctx context.Context, target string) *model.Site {
	site := model.NewSite(target)

	pl, err := bp.pipelineFactory(target)
	if err != nil {
		site.Error = err
		site.ErrorMessage = err.Error()
		return site
	}

	if err := pl.Execute(ctx, site); err != nil {
		site.Error = err
		site.ErrorMessage = err.Error()
	}

	return site
}
