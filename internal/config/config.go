package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are tuned for small-site audits with a rendered browser:
// page budgets stay small because every page costs a full Chrome
// navigation plus settle time.
const (
	// DefaultTimeout is the per-page render timeout. 25 seconds covers
	// slow JavaScript-heavy pages while keeping a worst-case audit of
	// ten pages under five minutes.
	DefaultTimeout = 25 * time.Second

	// DefaultMaxPages is the maximum number of pages to audit per site.
	// Ten pages is enough signal for a small-business site while keeping
	// audit time predictable. Users can override this via --max-pages.
	DefaultMaxPages = 10

	// DefaultMaxLinksPerPage caps how many links a single page may
	// contribute to the crawl frontier. 80 keeps sitemap-style pages
	// from flooding the queue.
	DefaultMaxLinksPerPage = 80

	// DefaultBatchConcurrency is the number of concurrent audits when
	// processing multiple targets. Each audit runs its own headless
	// Chrome, so this stays low to bound memory use.
	DefaultBatchConcurrency = 2

	// AppName is the application name used for XDG directory paths.
	AppName = "seolens"
)

// Config holds all configuration options for SEOLens.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of site URLs to audit.
	// Must contain at least one URL.
	Targets []string

	// MaxPages is the maximum number of pages to audit per site.
	// Pages that fail to render still count against this budget.
	MaxPages int

	// MaxLinksPerPage caps discovery per page during the crawl.
	MaxLinksPerPage int

	// Timeout is the render timeout for each page navigation.
	// It applies per page, not to the overall audit duration.
	Timeout time.Duration

	// CookieAccept is the label of a consent button to click after each
	// navigation (e.g., "Accept all"). Empty disables the click.
	CookieAccept string

	// ChromePath overrides the Chrome/Chromium binary location.
	// When empty the browser is located via standard lookup paths.
	ChromePath string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchConcurrency is the number of concurrent audits when processing
	// multiple targets. Each audit runs its own browser.
	BatchConcurrency int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seolens in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// Audit results are saved there for historical comparison.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save audit results to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, budgets).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:         DefaultMaxPages,
		MaxLinksPerPage:  DefaultMaxLinksPerPage,
		Timeout:          DefaultTimeout,
		BatchConcurrency: DefaultBatchConcurrency,
		DBDir:            XDGDataDir(),
		SaveToDB:         true,
	}
}

// XDGDataDir returns the XDG data directory for SEOLens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/seolens
// On macOS: ~/Library/Application Support/seolens
// On Windows: %LOCALAPPDATA%\seolens
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SEOLens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/seolens
// On macOS: ~/Library/Application Support/seolens
// On Windows: %APPDATA%\seolens
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for SEOLens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/seolens
// On macOS: ~/Library/Caches/seolens
// On Windows: %LOCALAPPDATA%\seolens\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any auditing begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to audit
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// MaxPages must be positive; zero would mean no auditing
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// MaxLinksPerPage must be positive or discovery stops entirely
	if c.MaxLinksPerPage <= 0 {
		return ErrInvalidMaxLinksPerPage
	}

	// BatchConcurrency must be positive; zero would mean no auditing
	if c.BatchConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
