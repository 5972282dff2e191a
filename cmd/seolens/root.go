// Package main provides the entry point for the SEOLens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SEOLens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seolens",
		Short: "Rendered-DOM SEO audit tool for small websites",
		Long: `SEOLens audits websites the way search engines see them: each page is
loaded in a headless browser so JavaScript-rendered content is included.

It crawls same-host pages breadth-first, extracts on-page SEO signals,
and scores the site across crawlability, content, schema, links & media,
performance, and social sectors.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
