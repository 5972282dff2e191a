package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/seolens/seolens/internal/config"
	"github.com/seolens/seolens/internal/database"
	"github.com/seolens/seolens/internal/score"
	"github.com/seolens/seolens/internal/urlutil"
	"github.com/spf13/cobra"
)

// Constants for score direction and summary messages.
const (
	scoreDirectionDeclined  = "declined"
	scoreDirectionImproved  = "improved"
	scoreDirectionUnchanged = "unchanged"
	noActionsMessage        = "No recommended actions"
)

// NewCompareCmd creates the compare command.
// This command compares audit results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [site-url]",
		Short: "Compare audit results with historical data",
		Long: `Compare displays differences between the current and previous audit results.

This command retrieves historical audit data from the database and shows:
- Overall and per-sector score changes
- New recommended actions that appeared since the last audit
- Resolved actions that are no longer recommended

The comparison requires at least two audits in the database for the specified
site. Use 'seolens audit' to perform audits and save results.

Examples:
  # Compare latest two audits for a site
  seolens compare example.com

  # List all audit history for a site
  seolens compare --list example.com

  # Compare with a specific historical audit by ID
  seolens compare --with-audit-id 5 example.com

  # Compare audits since a specific date
  seolens compare --since "2026-01-01" example.com

  # Output comparison in JSON format
  seolens compare --json example.com

  # List all audited hosts in the database
  seolens compare --list-hosts`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List audit history for the specified site")
	cmd.Flags().BoolP("list-hosts", "L", false,
		"List all audited hosts in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-audit-id", "i", 0,
		"Compare with a specific audit by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first audit after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-hosts flag first (requires database but no site)
	listHosts, err := cmd.Flags().GetBool("list-hosts")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-hosts)
	// This prevents database lock issues when validation fails
	var host string
	if !listHosts {
		// Require a site URL for other operations
		if len(args) == 0 {
			return errors.New("site URL is required (use --list-hosts to see available hosts)")
		}

		host = urlutil.Host(normalizeTarget(args[0]))
		if host == "" {
			return fmt.Errorf("invalid site URL: %s", args[0])
		}
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	// Handle --list-hosts flag
	if listHosts {
		return listAuditedHosts(ctx, db, out)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listAuditHistory(ctx, db, out, host)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withAuditID, err := cmd.Flags().GetInt64("with-audit-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	// Perform comparison
	return runComparison(ctx, db, out, host, withAuditID, sinceDate, jsonOutput, markdownOutput)
}

// listAuditedHosts lists all hosts that have audit records in the database.
func listAuditedHosts(ctx context.Context, db *database.AuditDB, out io.Writer) error {
	hosts, err := db.ListAuditedHosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list hosts: %w", err)
	}

	if len(hosts) == 0 {
		fmt.Fprintln(out, "No audited hosts found in the database.")
		fmt.Fprintln(out, "\nUse 'seolens audit <site-url>' to audit a website.")
		return nil
	}

	fmt.Fprintf(out, "Audited hosts (%d):\n\n", len(hosts))
	for _, host := range hosts {
		fmt.Fprintf(out, "  • %s\n", host)
	}
	fmt.Fprintln(out, "\nUse 'seolens compare --list <site-url>' to see audit history for a host.")

	return nil
}

// listAuditHistory lists all audit records for a specific host.
func listAuditHistory(ctx context.Context, db *database.AuditDB, out io.Writer, host string) error {
	audits, err := db.AuditHistory(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(audits) == 0 {
		fmt.Fprintf(out, "No audit history found for %s\n", host)
		fmt.Fprintln(out, "\nUse 'seolens audit' to audit this site.")
		return nil
	}

	fmt.Fprintf(out, "Audit history for %s (%d audits):\n\n", host, len(audits))
	fmt.Fprintf(out, "  %-6s  %-20s  %-7s  %-6s  %s\n", "ID", "Date", "Score", "Grade", "Pages")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 55))

	for _, meta := range audits {
		fmt.Fprintf(out, "  %-6d  %-20s  %-7d  %-6s  %d\n",
			meta.ID,
			meta.AuditedAt.Format("2006-01-02 15:04:05"),
			meta.OverallScore,
			meta.Grade,
			meta.PagesAudited,
		)
	}

	fmt.Fprintln(out, "\nUse 'seolens compare <site-url>' to compare the latest two audits.")
	fmt.Fprintln(out, "Use 'seolens compare --with-audit-id <id> <site-url>' to compare with a specific audit.")

	return nil
}

// runComparison performs the actual comparison between audit records.
func runComparison(ctx context.Context, db *database.AuditDB, out io.Writer, host string, withAuditID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	// Get the audit history (newest first)
	history, err := db.AuditHistory(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no audit history found for %s", host)
	}

	if len(history) < 2 && withAuditID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 audits are required for comparison (found %d)", len(history))
	}

	// Latest audit is always the current one
	currentAudit, err := db.LatestAudit(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get latest audit: %w", err)
	}
	if currentAudit == nil {
		return fmt.Errorf("no audit history found for %s", host)
	}

	// Determine which audit to compare against
	var previousAudit *database.AuditRecord

	if withAuditID > 0 {
		// Find the audit with the specified ID
		previousAudit, err = db.AuditByID(ctx, withAuditID)
		if err != nil {
			return fmt.Errorf("failed to get audit with ID %d: %w", withAuditID, err)
		}
		if previousAudit == nil {
			return fmt.Errorf("audit with ID %d not found", withAuditID)
		}
		// Validate that the audit ID belongs to the same host
		if previousAudit.Host != host {
			return fmt.Errorf("audit ID %d belongs to %s, not %s", withAuditID, previousAudit.Host, host)
		}
	} else if sinceDate != "" {
		// Parse the date and find the first (oldest) audit at or after the specified date
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// History is sorted newest first, so iterate in reverse to find
		// the oldest audit at or after the date
		var previousID int64
		for i := len(history) - 1; i >= 0; i-- {
			meta := history[i]
			if meta.AuditedAt.After(parsedDate) || meta.AuditedAt.Equal(parsedDate) {
				previousID = meta.ID
				break
			}
		}
		if previousID == 0 {
			return fmt.Errorf("no audits found since %s", sinceDate)
		}
		if previousID == currentAudit.ID {
			return fmt.Errorf("only one audit found since %s; at least 2 audits are required for comparison", sinceDate)
		}

		previousAudit, err = db.AuditByID(ctx, previousID)
		if err != nil {
			return fmt.Errorf("failed to get audit with ID %d: %w", previousID, err)
		}
	} else {
		// Default: compare with the previous audit
		previousAudit, err = db.AuditByID(ctx, history[1].ID)
		if err != nil {
			return fmt.Errorf("failed to get audit with ID %d: %w", history[1].ID, err)
		}
	}
	if previousAudit == nil {
		return errors.New("previous audit not found")
	}

	// Generate comparison result
	comparison := compareAudits(previousAudit, currentAudit)

	// Output the result
	if jsonOutput {
		return outputComparisonJSON(out, comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(out, comparison)
	}
	return outputComparisonText(out, comparison)
}

// ComparisonResult holds the result of comparing two audit records.
type ComparisonResult struct {
	// Host is the audited host.
	Host string `json:"host"`

	// PreviousAudit contains metadata about the previous audit.
	PreviousAudit AuditSnapshot `json:"previous_audit"`

	// CurrentAudit contains metadata about the current audit.
	CurrentAudit AuditSnapshot `json:"current_audit"`

	// ScoreDelta is the change in overall score.
	ScoreDelta int `json:"score_delta"`

	// Direction is "improved", "declined", or "unchanged".
	Direction string `json:"direction"`

	// SectorDeltas holds per-sector score changes.
	SectorDeltas SectorDeltas `json:"sector_deltas"`

	// NewActions contains actions recommended now but not previously.
	NewActions []string `json:"new_actions,omitempty"`

	// ResolvedActions contains previously recommended actions that are gone.
	ResolvedActions []string `json:"resolved_actions,omitempty"`

	// UnchangedActionCount is the number of actions present in both audits.
	UnchangedActionCount int `json:"unchanged_action_count"`
}

// AuditSnapshot contains metadata about one audit for comparison display.
type AuditSnapshot struct {
	// ID is the database record ID.
	ID int64 `json:"id"`

	// AuditedAt is when the audit was performed.
	AuditedAt time.Time `json:"audited_at"`

	// OverallScore is the weighted site score in [0, 100].
	OverallScore int `json:"overall_score"`

	// Grade is the letter grade for OverallScore.
	Grade string `json:"grade"`

	// PagesAudited is the number of pages audited.
	PagesAudited int `json:"pages_audited"`

	// Sectors holds the six sector scores.
	Sectors score.SectorScores `json:"sectors"`
}

// SectorDeltas holds per-sector score changes between two audits.
type SectorDeltas struct {
	Crawlability int `json:"crawlability"`
	Content      int `json:"content"`
	Schema       int `json:"schema"`
	LinksMedia   int `json:"links_media"`
	Performance  int `json:"performance"`
	Social       int `json:"social"`
}

// compareAudits compares two audit records and generates a comparison result.
func compareAudits(previous, current *database.AuditRecord) *ComparisonResult {
	result := &ComparisonResult{
		Host:          current.Host,
		PreviousAudit: auditSnapshot(previous),
		CurrentAudit:  auditSnapshot(current),
	}

	result.ScoreDelta = result.CurrentAudit.OverallScore - result.PreviousAudit.OverallScore
	switch {
	case result.ScoreDelta > 0:
		result.Direction = scoreDirectionImproved
	case result.ScoreDelta < 0:
		result.Direction = scoreDirectionDeclined
	default:
		result.Direction = scoreDirectionUnchanged
	}

	result.SectorDeltas = SectorDeltas{
		Crawlability: result.CurrentAudit.Sectors.Crawlability - result.PreviousAudit.Sectors.Crawlability,
		Content:      result.CurrentAudit.Sectors.Content - result.PreviousAudit.Sectors.Content,
		Schema:       result.CurrentAudit.Sectors.Schema - result.PreviousAudit.Sectors.Schema,
		LinksMedia:   result.CurrentAudit.Sectors.LinksMedia - result.PreviousAudit.Sectors.LinksMedia,
		Performance:  result.CurrentAudit.Sectors.Performance - result.PreviousAudit.Sectors.Performance,
		Social:       result.CurrentAudit.Sectors.Social - result.PreviousAudit.Sectors.Social,
	}

	// Compare recommended actions by exact text
	previousActions := make(map[string]bool)
	currentActions := make(map[string]bool)
	if previous.Site != nil {
		for _, a := range score.Actions(previous.Site) {
			previousActions[a] = true
		}
	}
	if current.Site != nil {
		for _, a := range score.Actions(current.Site) {
			currentActions[a] = true
		}
	}

	if current.Site != nil {
		for _, a := range score.Actions(current.Site) {
			if !previousActions[a] {
				result.NewActions = append(result.NewActions, a)
			} else {
				result.UnchangedActionCount++
			}
		}
	}
	if previous.Site != nil {
		for _, a := range score.Actions(previous.Site) {
			if !currentActions[a] {
				result.ResolvedActions = append(result.ResolvedActions, a)
			}
		}
	}

	return result
}

// auditSnapshot extracts comparison metadata from an audit record.
func auditSnapshot(record *database.AuditRecord) AuditSnapshot {
	snapshot := AuditSnapshot{
		ID:           record.ID,
		AuditedAt:    record.AuditedAt,
		OverallScore: record.OverallScore,
		Grade:        record.Grade,
		PagesAudited: record.PagesAudited,
	}
	if record.Site != nil {
		snapshot.Sectors = score.Sectors(record.Site)
	}
	return snapshot
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "# Audit Comparison: %s\n\n", result.Host)

	// Score change summary
	fmt.Fprintln(out, "## Summary")
	fmt.Fprintf(out, "\n**Score Status:** %s\n\n", formatScoreDirection(result.Direction, result.ScoreDelta))

	// Audit metadata table
	fmt.Fprintln(out, "| Metric | Previous | Current | Change |")
	fmt.Fprintln(out, "|--------|----------|---------|--------|")
	fmt.Fprintf(out, "| Date | %s | %s | - |\n",
		result.PreviousAudit.AuditedAt.Format("2006-01-02 15:04"),
		result.CurrentAudit.AuditedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "| **Overall** | **%d** | **%d** | **%s** |\n",
		result.PreviousAudit.OverallScore,
		result.CurrentAudit.OverallScore,
		formatDelta(result.ScoreDelta))
	fmt.Fprintf(out, "| Grade | %s | %s | - |\n",
		result.PreviousAudit.Grade, result.CurrentAudit.Grade)
	fmt.Fprintf(out, "| Crawlability | %d | %d | %s |\n",
		result.PreviousAudit.Sectors.Crawlability,
		result.CurrentAudit.Sectors.Crawlability,
		formatDelta(result.SectorDeltas.Crawlability))
	fmt.Fprintf(out, "| Content | %d | %d | %s |\n",
		result.PreviousAudit.Sectors.Content,
		result.CurrentAudit.Sectors.Content,
		formatDelta(result.SectorDeltas.Content))
	fmt.Fprintf(out, "| Schema | %d | %d | %s |\n",
		result.PreviousAudit.Sectors.Schema,
		result.CurrentAudit.Sectors.Schema,
		formatDelta(result.SectorDeltas.Schema))
	fmt.Fprintf(out, "| Links & Media | %d | %d | %s |\n",
		result.PreviousAudit.Sectors.LinksMedia,
		result.CurrentAudit.Sectors.LinksMedia,
		formatDelta(result.SectorDeltas.LinksMedia))
	fmt.Fprintf(out, "| Performance | %d | %d | %s |\n",
		result.PreviousAudit.Sectors.Performance,
		result.CurrentAudit.Sectors.Performance,
		formatDelta(result.SectorDeltas.Performance))
	fmt.Fprintf(out, "| Social | %d | %d | %s |\n",
		result.PreviousAudit.Sectors.Social,
		result.CurrentAudit.Sectors.Social,
		formatDelta(result.SectorDeltas.Social))

	// New actions
	if len(result.NewActions) > 0 {
		fmt.Fprintf(out, "\n## New Actions (%d)\n\n", len(result.NewActions))
		for _, a := range result.NewActions {
			fmt.Fprintf(out, "- %s\n", a)
		}
	}

	// Resolved actions
	if len(result.ResolvedActions) > 0 {
		fmt.Fprintf(out, "\n## Resolved Actions (%d)\n\n", len(result.ResolvedActions))
		for _, a := range result.ResolvedActions {
			fmt.Fprintf(out, "- ~~%s~~\n", a)
		}
	}

	// Unchanged count
	if result.UnchangedActionCount > 0 {
		fmt.Fprintf(out, "\n---\n\n*%d actions unchanged*\n", result.UnchangedActionCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Audit Comparison: %s\n", result.Host)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	// Score change summary
	fmt.Fprintf(out, "\nScore Status: %s\n", formatScoreDirection(result.Direction, result.ScoreDelta))

	// Audit dates
	fmt.Fprintf(out, "\nPrevious audit: %s (ID %d)\n",
		result.PreviousAudit.AuditedAt.Format("2006-01-02 15:04:05"), result.PreviousAudit.ID)
	fmt.Fprintf(out, "Current audit:  %s (ID %d)\n",
		result.CurrentAudit.AuditedAt.Format("2006-01-02 15:04:05"), result.CurrentAudit.ID)

	// Summary table
	fmt.Fprintln(out, "\nScore Summary:")
	fmt.Fprintf(out, "  %-15s  %-10s  %-10s  %-10s\n", "Sector", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 50))
	fmt.Fprintf(out, "  %-15s  %-10d  %-10d  %-10s\n", "Overall",
		result.PreviousAudit.OverallScore, result.CurrentAudit.OverallScore,
		formatDelta(result.ScoreDelta))
	fmt.Fprintf(out, "  %-15s  %-10d  %-10d  %-10s\n", "Crawlability",
		result.PreviousAudit.Sectors.Crawlability, result.CurrentAudit.Sectors.Crawlability,
		formatDelta(result.SectorDeltas.Crawlability))
	fmt.Fprintf(out, "  %-15s  %-10d  %-10d  %-10s\n", "Content",
		result.PreviousAudit.Sectors.Content, result.CurrentAudit.Sectors.Content,
		formatDelta(result.SectorDeltas.Content))
	fmt.Fprintf(out, "  %-15s  %-10d  %-10d  %-10s\n", "Schema",
		result.PreviousAudit.Sectors.Schema, result.CurrentAudit.Sectors.Schema,
		formatDelta(result.SectorDeltas.Schema))
	fmt.Fprintf(out, "  %-15s  %-10d  %-10d  %-10s\n", "Links & Media",
		result.PreviousAudit.Sectors.LinksMedia, result.CurrentAudit.Sectors.LinksMedia,
		formatDelta(result.SectorDeltas.LinksMedia))
	fmt.Fprintf(out, "  %-15s  %-10d  %-10d  %-10s\n", "Performance",
		result.PreviousAudit.Sectors.Performance, result.CurrentAudit.Sectors.Performance,
		formatDelta(result.SectorDeltas.Performance))
	fmt.Fprintf(out, "  %-15s  %-10d  %-10d  %-10s\n", "Social",
		result.PreviousAudit.Sectors.Social, result.CurrentAudit.Sectors.Social,
		formatDelta(result.SectorDeltas.Social))

	// New actions
	if len(result.NewActions) > 0 {
		fmt.Fprintf(out, "\nNew Actions (%d):\n", len(result.NewActions))
		for _, a := range result.NewActions {
			fmt.Fprintf(out, "  [+] %s\n", a)
		}
	}

	// Resolved actions
	if len(result.ResolvedActions) > 0 {
		fmt.Fprintf(out, "\nResolved Actions (%d):\n", len(result.ResolvedActions))
		for _, a := range result.ResolvedActions {
			fmt.Fprintf(out, "  [-] %s\n", a)
		}
	}

	// Unchanged count
	if result.UnchangedActionCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d actions\n", result.UnchangedActionCount)
	}

	if len(result.NewActions) == 0 && len(result.ResolvedActions) == 0 && result.UnchangedActionCount == 0 {
		fmt.Fprintf(out, "\n%s in either audit.\n", noActionsMessage)
	}

	return nil
}

// formatScoreDirection formats the score change direction for display.
func formatScoreDirection(direction string, delta int) string {
	switch direction {
	case scoreDirectionImproved:
		return fmt.Sprintf("IMPROVED (%s points)", formatDelta(delta))
	case scoreDirectionDeclined:
		return fmt.Sprintf("DECLINED (%s points)", formatDelta(delta))
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
