package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/seolens/seolens/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing with site owners.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the audit summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeScores(md, summary)
	w.writeEndpoints(md, summary)
	w.writeActions(md, summary)
	w.writePages(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	site := summary.Site

	md.H1("SEOLens Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + site.StartURL + "`"},
			{"Audit Date", site.AuditedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Audited", strconv.Itoa(site.PageCount())},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")

	w.writeGradeAlert(md, summary)
}

// getStatusText returns the status text based on the audit state.
func (w *MarkdownWriter) getStatusText(summary *Summary) string {
	if summary.Site.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if summary.Site.ErrorMessage != "" {
		return "❌ Error - " + summary.Site.ErrorMessage
	}
	return "✅ Complete"
}

// writeGradeAlert writes an alert matching the overall grade.
func (w *MarkdownWriter) writeGradeAlert(md *markdown.Markdown, summary *Summary) {
	switch summary.Grade {
	case "A":
		md.Tip(fmt.Sprintf("Grade A (%d/100): %s", summary.OverallScore, summary.GradeLabel))
	case "B":
		md.Note(fmt.Sprintf("Grade B (%d/100): %s", summary.OverallScore, summary.GradeLabel))
	case "C":
		md.Importantf("Grade C (%d/100): %s", summary.OverallScore, summary.GradeLabel)
	case "D":
		md.Warningf("Grade D (%d/100): %s", summary.OverallScore, summary.GradeLabel)
	default:
		md.Cautionf("Grade %s (%d/100): %s", summary.Grade, summary.OverallScore, summary.GradeLabel)
	}
	md.PlainText("")
}

// writeScores writes the sector score table and the page grade pie chart.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, summary *Summary) {
	md.H2("Scores")
	md.PlainText("")

	s := summary.Sectors
	md.Table(markdown.TableSet{
		Header: []string{"Sector", "Score"},
		Rows: [][]string{
			{"Crawlability", strconv.Itoa(s.Crawlability)},
			{"Content", strconv.Itoa(s.Content)},
			{"Schema", strconv.Itoa(s.Schema)},
			{"Links & Media", strconv.Itoa(s.LinksMedia)},
			{"Performance", strconv.Itoa(s.Performance)},
			{"Social", strconv.Itoa(s.Social)},
			{"**Overall**", "**" + strconv.Itoa(summary.OverallScore) + "**"},
		},
	})
	md.PlainText("")

	if len(summary.Pages) > 0 {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart of audited pages per grade.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages by Grade"),
		piechart.WithShowData(true),
	)

	counts := summary.PagesByGrade()
	for _, grade := range []string{"A", "B", "C", "D", "E"} {
		if counts[grade] > 0 {
			chart.LabelAndIntValue("Grade "+grade, uint64(counts[grade]))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeEndpoints writes the well-known endpoint check results.
func (w *MarkdownWriter) writeEndpoints(md *markdown.Markdown, summary *Summary) {
	site := summary.Site

	md.H2("Crawlability Checks")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Endpoint", "Status"},
		Rows: [][]string{
			{"`robots.txt`", endpointBadge(site.RobotsOK)},
			{"`sitemap.xml`", endpointBadge(site.SitemapOK)},
			{"`llms.txt`", endpointBadge(site.LLMSOK)},
		},
	})
	md.PlainText("")
}

// endpointBadge renders a tri-state endpoint check for Markdown tables.
func endpointBadge(ok *bool) string {
	switch {
	case ok == nil:
		return "➖ not checked"
	case *ok:
		return "✅ found"
	default:
		return "❌ missing"
	}
}

// writeActions writes the recommended actions section.
func (w *MarkdownWriter) writeActions(md *markdown.Markdown, summary *Summary) {
	md.H2("Recommended Actions")
	md.PlainText("")

	if len(summary.Actions) == 0 {
		md.PlainText("Nothing to do. Keep it up.")
		md.PlainText("")
		return
	}

	md.BulletList(summary.Actions...)
	md.PlainText("")
}

// writePages writes the per-page overview table and detailed findings.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, summary *Summary) {
	md.H2("Pages")
	md.PlainText("")

	if len(summary.Pages) == 0 {
		md.PlainText("No pages were audited.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Pages))
	for i, ps := range summary.Pages {
		page := summary.Site.Pages[i]
		rows[i] = []string{
			ps.Grade,
			strconv.Itoa(ps.Score),
			truncateString(ps.URL, 60),
			truncateString(page.Title, 40),
			strconv.Itoa(page.WordCount),
			fmt.Sprintf("%.1fs", page.LoadSeconds()),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Grade", "Score", "URL", "Title", "Words", "Load"},
		Rows:   rows,
	})
	md.PlainText("")

	for i, ps := range summary.Pages {
		page := summary.Site.Pages[i]
		md.Details(fmt.Sprintf("%s (%d/100)", ps.URL, ps.Score), w.pageDetail(page, ps))
	}
	md.PlainText("")
}

// pageDetail renders the collapsible detail body for one page.
func (w *MarkdownWriter) pageDetail(page *model.Page, ps PageSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Meta %d · Content %d · Structure %d · Schema %d · Links/Media %d · Basics %d\n\n",
		ps.Breakdown.Meta,
		ps.Breakdown.Content,
		ps.Breakdown.Structure,
		ps.Breakdown.Schema,
		ps.Breakdown.LinksMedia,
		ps.Breakdown.BasicsPerf,
	))

	if page.Lang != "" {
		sb.WriteString("Language: " + langName(page.Lang) + "\n\n")
	}
	if len(page.SchemaTypes) > 0 {
		sb.WriteString("Schema types: " + strings.Join(page.SchemaTypes, ", ") + "\n\n")
	}

	for _, win := range page.Wins {
		sb.WriteString(win + "\n")
	}
	for _, issue := range page.Issues {
		sb.WriteString(issue + "\n")
	}

	return sb.String()
}

// langName resolves a BCP 47 code to its English display name.
// Unparseable codes are shown as-is.
func langName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	return fmt.Sprintf("%s (%s)", display.English.Languages().Name(tag), code)
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [SEOLens](https://github.com/seolens/seolens)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
