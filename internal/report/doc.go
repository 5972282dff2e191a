// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: GitHub-flavored Markdown for documentation and sharing
//   - JSONWriter: Structured JSON output for tool integration
//
// All writers consume a Summary, which bundles the crawled site record
// with its computed scores, grade, and recommended actions.
//
// Design decision: We separate report writing from report data structures
// (which are in the model and score packages) to follow the single
// responsibility principle. This allows adding new output formats without
// modifying the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
