package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seolens/seolens/internal/model"
)

// AuditDB provides SQLite-based storage for completed site audits.
// It manages connection pooling and provides methods for saving audits
// and querying audit history.
//
// Design decision: We use a single database file for all audited hosts
// rather than separate files per host. This simplifies cross-site queries
// (listing hosts, comparing runs) and backup/restore operations.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "seolens.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audits store one row per completed site audit.
	-- The full site record lives in report_json; the scalar columns
	-- exist so history listings never have to parse JSON.
	CREATE TABLE IF NOT EXISTS audits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		host TEXT NOT NULL,
		start_url TEXT NOT NULL,
		audited_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		overall_score INTEGER NOT NULL,
		grade TEXT NOT NULL,
		pages_audited INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audits_host ON audits(host);
	CREATE INDEX IF NOT EXISTS idx_audits_audited_at ON audits(audited_at);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// AuditRecord is a stored audit including the full site record.
type AuditRecord struct {
	// ID is the unique identifier of the audit in the database.
	ID int64

	// Host is the audited host.
	Host string

	// StartURL is the URL the crawl started from.
	StartURL string

	// AuditedAt is when the audit ran.
	AuditedAt time.Time

	// OverallScore is the weighted site score at audit time.
	OverallScore int

	// Grade is the letter grade derived from OverallScore.
	Grade string

	// PagesAudited is the number of pages the audit covered.
	PagesAudited int

	// Site is the full site record as collected by the crawl.
	Site *model.Site
}

// AuditMetadata contains summary information about a stored audit.
// This is used for displaying audit history without loading the full record.
type AuditMetadata struct {
	// ID is the unique identifier of the audit in the database.
	ID int64

	// Host is the audited host.
	Host string

	// AuditedAt is when the audit ran.
	AuditedAt time.Time

	// OverallScore is the weighted site score at audit time.
	OverallScore int

	// Grade is the letter grade derived from OverallScore.
	Grade string

	// PagesAudited is the number of pages the audit covered.
	PagesAudited int
}

// SaveAudit stores a completed audit. The full site record is serialized
// to JSON; the score and grade are denormalized into columns for cheap
// history queries.
func (adb *AuditDB) SaveAudit(ctx context.Context, site *model.Site, overallScore int, grade string) error {
	siteJSON, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("failed to serialize site: %w", err)
	}

	query := `
	INSERT INTO audits (host, start_url, overall_score, grade, pages_audited, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = adb.db.ExecContext(ctx, query,
		site.Host,
		site.StartURL,
		overallScore,
		grade,
		site.PageCount(),
		string(siteJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}

	return nil
}

// LatestAudit retrieves the most recent audit for a host.
// Returns (nil, nil) when the host has never been audited.
func (adb *AuditDB) LatestAudit(ctx context.Context, host string) (*AuditRecord, error) {
	query := `
	SELECT id, host, start_url, audited_at, overall_score, grade, pages_audited, report_json
	FROM audits
	WHERE host = ?
	ORDER BY audited_at DESC, id DESC
	LIMIT 1
	`

	return adb.scanAuditRow(adb.db.QueryRowContext(ctx, query, host))
}

// AuditByID retrieves an audit by its database ID.
// Returns (nil, nil) when no audit has that ID.
func (adb *AuditDB) AuditByID(ctx context.Context, id int64) (*AuditRecord, error) {
	query := `
	SELECT id, host, start_url, audited_at, overall_score, grade, pages_audited, report_json
	FROM audits
	WHERE id = ?
	`

	return adb.scanAuditRow(adb.db.QueryRowContext(ctx, query, id))
}

// scanAuditRow decodes a single audit row including the site JSON.
func (adb *AuditDB) scanAuditRow(row *sql.Row) (*AuditRecord, error) {
	var record AuditRecord
	var auditedAt string
	var siteJSON string

	err := row.Scan(
		&record.ID,
		&record.Host,
		&record.StartURL,
		&auditedAt,
		&record.OverallScore,
		&record.Grade,
		&record.PagesAudited,
		&siteJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	record.AuditedAt = parseTimestamp(auditedAt)

	var site model.Site
	if err := json.Unmarshal([]byte(siteJSON), &site); err != nil {
		return nil, fmt.Errorf("failed to parse site record: %w", err)
	}
	record.Site = &site

	return &record, nil
}

// AuditHistory retrieves audit metadata for a host, newest first.
// This is more efficient than loading full records when only the score
// timeline is needed.
func (adb *AuditDB) AuditHistory(ctx context.Context, host string) ([]AuditMetadata, error) {
	query := `
	SELECT id, host, audited_at, overall_score, grade, pages_audited
	FROM audits
	WHERE host = ?
	ORDER BY audited_at DESC, id DESC
	`

	rows, err := adb.db.QueryContext(ctx, query, host)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var results []AuditMetadata
	for rows.Next() {
		var meta AuditMetadata
		var auditedAt string

		if err := rows.Scan(
			&meta.ID,
			&meta.Host,
			&auditedAt,
			&meta.OverallScore,
			&meta.Grade,
			&meta.PagesAudited,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit metadata: %w", err)
		}

		meta.AuditedAt = parseTimestamp(auditedAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListAuditedHosts returns all hosts that have at least one stored audit.
func (adb *AuditDB) ListAuditedHosts(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT host FROM audits
	ORDER BY host
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan host: %w", err)
		}
		hosts = append(hosts, host)
	}

	return hosts, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	// This is a fallback to avoid breaking functionality for edge cases
	return time.Time{}
}
