package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no target URL or list file is specified.
	// This error occurs when neither --batch nor a positional argument
	// provides a target.
	ErrNoTarget = errors.New("no target specified: provide a site URL or use --batch")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate navigation failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would audit nothing.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidMaxLinksPerPage is returned when the per-page link cap
	// is not positive. A cap of zero would stop link discovery entirely.
	ErrInvalidMaxLinksPerPage = errors.New("invalid links per page: must be positive")

	// ErrInvalidConcurrency is returned when the batch concurrency is not
	// positive. Zero concurrent audits would mean no auditing at all.
	ErrInvalidConcurrency = errors.New("invalid batch concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
