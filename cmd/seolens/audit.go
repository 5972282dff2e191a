package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/seolens/seolens/internal/config"
	"github.com/seolens/seolens/internal/database"
	"github.com/seolens/seolens/internal/log"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/pipeline"
	"github.com/seolens/seolens/internal/render"
	"github.com/seolens/seolens/internal/report"
	"github.com/seolens/seolens/internal/urlutil"
	"github.com/spf13/cobra"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [site-url]",
		Short: "Audit a website's rendered-DOM SEO signals",
		Long: `Audit crawls a website with a headless browser and scores its SEO health.

Each page is rendered like a search engine would see it, then analyzed for:
- Meta signals (title, description, canonical, robots directives)
- Content structure (headings, word count, language declaration)
- Structured data (JSON-LD schema types)
- Links and media (internal linking, image alt coverage)
- Crawlability endpoints (robots.txt, sitemap.xml, llms.txt)

Examples:
  # Audit a single site
  seolens audit example.com

  # Audit multiple sites concurrently
  seolens audit example.com another.example

  # Audit more pages with a longer render timeout
  seolens audit -p 25 -t 40s example.com

  # Click a cookie consent button before extraction
  seolens audit --cookie-accept "Accept all" example.com

  # Output JSON report to a file
  seolens audit --json -o report.json example.com

Configuration file (.seolens) example:
  defaults:
    maxPages: 15
  sites:
    example.com:
      cookieAccept: "Accept all"
      maxPages: 25`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to audit per site")
	cmd.Flags().Int("links-per-page", config.DefaultMaxLinksPerPage,
		"Maximum number of links discovered per page")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Render timeout for each page navigation")

	// Browser flags
	cmd.Flags().String("cookie-accept", "",
		"Label of a cookie consent button to click after navigation (e.g., \"Accept all\")")
	cmd.Flags().String("chrome-path", "",
		"Path to the Chrome/Chromium binary (default: standard lookup paths)")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchConcurrency,
		"Number of concurrent audits when multiple targets are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seolens in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Skip saving the audit result to the local history database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// normalizeTarget normalizes a target URL for auditing.
// Bare hostnames get an https scheme so "example.com" works as a target.
func normalizeTarget(target string) string {
	target = strings.TrimSpace(target)
	if target != "" && !strings.Contains(target, "://") {
		target = "https://" + target
	}
	return urlutil.Normalize(target)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxLinksPerPage, err = cmd.Flags().GetInt("links-per-page")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CookieAccept, err = cmd.Flags().GetString("cookie-accept")
	if err != nil {
		return nil, err
	}

	cfg.ChromePath, err = cmd.Flags().GetString("chrome-path")
	if err != nil {
		return nil, err
	}

	cfg.BatchConcurrency, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the target site URLs
	cfg.Targets = make([]string, 0, len(args))
	for _, arg := range args {
		cfg.Targets = append(cfg.Targets, normalizeTarget(arg))
	}

	return cfg, nil
}

// runAudit executes the audit.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting audit",
		"targets", cfg.Targets,
		"maxPages", cfg.MaxPages,
		"concurrency", cfg.BatchConcurrency,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for parallel auditing if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchConcurrency > 1 {
		return runBatchAudit(ctx, cfg, db, logger)
	}

	// Single target or sequential auditing
	return runSequentialAudit(ctx, cfg, db, logger)
}

// runSequentialAudit audits targets one at a time.
func runSequentialAudit(ctx context.Context, cfg *config.Config, db *database.AuditDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		site := model.NewSite(target)

		// Each audit owns a browser session via its pipeline
		p := createPipelineForTarget(cfg, logger, site.Host)

		fmt.Printf("Auditing %s...\n", target)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, site); err != nil {
			logger.Error("audit failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Score the site and output the report
		summary := report.NewSummary(site)
		if err := outputReport(cfg, summary); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		// Save to database if enabled
		if err := saveAudit(ctx, db, summary, logger); err != nil {
			logger.Error("failed to save audit", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchAudit audits multiple targets concurrently using BatchProcessor.
func runBatchAudit(ctx context.Context, cfg *config.Config, db *database.AuditDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchConcurrency)

	startTime := time.Now()

	// Create batch processor with a per-target pipeline factory.
	// Each pipeline gets its own browser session and per-host config.
	bp := pipeline.NewBatchProcessor(
		func(target string) (*pipeline.Pipeline, error) {
			return createPipelineForTarget(cfg, logger, urlutil.Host(target)), nil
		},
		pipeline.WithConcurrency(cfg.BatchConcurrency),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(site *model.Site, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Audit completed: %s\n", index+1, len(cfg.Targets), site.StartURL)

		summary := report.NewSummary(site)
		if err := outputReport(cfg, summary); err != nil {
			logger.Error("report failed", "target", site.StartURL, "error", err)
		}

		// Save to database if enabled
		if err := saveAudit(ctx, db, summary, logger); err != nil {
			logger.Error("failed to save audit", "target", site.StartURL, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// createPipelineForTarget creates a pipeline with per-host configuration.
// Host-specific settings from the config file override global flags.
func createPipelineForTarget(cfg *config.Config, logger *slog.Logger, host string) *pipeline.Pipeline {
	var siteConfig config.SiteConfig
	if cfg.SiteConfigs != nil {
		siteConfig = cfg.SiteConfigs.GetSiteConfig(host)
	}

	maxPages := cfg.MaxPages
	if siteConfig.MaxPages > 0 {
		maxPages = siteConfig.MaxPages
	}

	maxLinks := cfg.MaxLinksPerPage
	if siteConfig.MaxLinksPerPage > 0 {
		maxLinks = siteConfig.MaxLinksPerPage
	}

	cookieAccept := cfg.CookieAccept
	if siteConfig.CookieAccept != "" {
		cookieAccept = siteConfig.CookieAccept
	}

	renderOpts := []render.ChromeOption{
		render.WithTimeout(cfg.Timeout),
		render.WithRenderLogger(logger),
	}
	if cookieAccept != "" {
		renderOpts = append(renderOpts, render.WithCookieAccept(cookieAccept))
	}
	if cfg.ChromePath != "" {
		renderOpts = append(renderOpts, render.WithChromePath(cfg.ChromePath))
	}

	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineMaxPages(maxPages),
		pipeline.WithPipelineMaxLinksPerPage(maxLinks),
	}

	return pipeline.DefaultPipeline(render.NewChrome(renderOpts...), pipelineOpts, configOpts...)
}

// outputReport outputs the audit report in the requested format.
func outputReport(cfg *config.Config, summary *report.Summary) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full summary with version metadata)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(summary)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(summary)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(summary)
	return err
}

// saveAudit saves the audit result to the database if enabled.
// If db is nil, this function is a no-op.
func saveAudit(ctx context.Context, db *database.AuditDB, summary *report.Summary, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveAudit(ctx, summary.Site, summary.OverallScore, summary.Grade); err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}

	logger.Info("audit saved to database",
		"host", summary.Site.Host,
		"score", summary.OverallScore,
		"grade", summary.Grade,
	)
	return nil
}
