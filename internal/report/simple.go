package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-page findings detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page findings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the audit summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeScores(&sb, summary)
	w.writeEndpoints(&sb, summary)
	w.writeActions(&sb, summary)
	w.writePages(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	site := summary.Site

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SEOLENS AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:           %s\n", site.StartURL))
	sb.WriteString(fmt.Sprintf("Audit Date:     %s\n", site.AuditedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Audited:  %d\n", site.PageCount()))

	switch {
	case site.TimedOut:
		sb.WriteString("Status:         TIMED OUT (partial results)\n")
	case site.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", site.ErrorMessage))
	default:
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeScores writes the overall score and the sector breakdown.
func (w *SimpleWriter) writeScores(sb *strings.Builder, summary *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SCORES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  OVERALL:       %3d / 100   Grade %s (%s)\n\n",
		summary.OverallScore, summary.Grade, summary.GradeLabel))

	s := summary.Sectors
	sb.WriteString(fmt.Sprintf("  Crawlability:  %3d\n", s.Crawlability))
	sb.WriteString(fmt.Sprintf("  Content:       %3d\n", s.Content))
	sb.WriteString(fmt.Sprintf("  Schema:        %3d\n", s.Schema))
	sb.WriteString(fmt.Sprintf("  Links & Media: %3d\n", s.LinksMedia))
	sb.WriteString(fmt.Sprintf("  Performance:   %3d\n", s.Performance))
	sb.WriteString(fmt.Sprintf("  Social:        %3d\n", s.Social))
	sb.WriteString("\n")
}

// writeEndpoints writes the well-known endpoint check results.
func (w *SimpleWriter) writeEndpoints(sb *strings.Builder, summary *Summary) {
	site := summary.Site

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWLABILITY CHECKS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  robots.txt:   %s\n", endpointStatus(site.RobotsOK)))
	sb.WriteString(fmt.Sprintf("  sitemap.xml:  %s\n", endpointStatus(site.SitemapOK)))
	sb.WriteString(fmt.Sprintf("  llms.txt:     %s\n", endpointStatus(site.LLMSOK)))
	sb.WriteString("\n")
}

// endpointStatus renders a tri-state endpoint check for terminal output.
func endpointStatus(ok *bool) string {
	switch {
	case ok == nil:
		return "not checked"
	case *ok:
		return "OK"
	default:
		return "MISSING"
	}
}

// writeActions writes the recommended actions section.
func (w *SimpleWriter) writeActions(sb *strings.Builder, summary *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECOMMENDED ACTIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Actions) == 0 {
		sb.WriteString("  Nothing to do. Keep it up.\n\n")
		return
	}

	for i, action := range summary.Actions {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, action))
	}
	sb.WriteString("\n")
}

// writePages writes the per-page score list, with findings in verbose mode.
func (w *SimpleWriter) writePages(sb *strings.Builder, summary *Summary) {
	if len(summary.Pages) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for i, ps := range summary.Pages {
		sb.WriteString(fmt.Sprintf("  [%s] %3d  %s\n", ps.Grade, ps.Score, ps.URL))

		if !w.verbose {
			continue
		}

		page := summary.Site.Pages[i]
		for _, win := range page.Wins {
			sb.WriteString(fmt.Sprintf("        %s\n", win))
		}
		for _, issue := range page.Issues {
			sb.WriteString(fmt.Sprintf("        %s\n", issue))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by SEOLens\n")
	sb.WriteString("https://github.com/seolens/seolens\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
