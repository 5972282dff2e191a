package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seolens/seolens/internal/config"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/report"
)

// TestNewAuditCmd tests the audit command creation.
func TestNewAuditCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "audit [site-url]" {
			t.Errorf("expected use 'audit [site-url]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{"max-pages", "p", "10"},
			{"links-per-page", "", "80"},
			{"timeout", "t", "25s"},
			{"cookie-accept", "", ""},
			{"chrome-path", "", ""},
			{"batch", "b", "2"},
			{"config", "c", ""},
			{"json", "j", "false"},
			{"markdown", "m", "false"},
			{"output", "o", ""},
			{"no-save", "", "false"},
		}

		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected flag %q", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %q: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("flag %q: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})
}

func TestNormalizeTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "bare hostname gets https scheme",
			target: "example.com",
			want:   "https://example.com",
		},
		{
			name:   "existing scheme is kept",
			target: "http://example.com",
			want:   "http://example.com",
		},
		{
			name:   "surrounding whitespace is trimmed",
			target: "  example.com  ",
			want:   "https://example.com",
		},
		{
			name:   "fragment is dropped",
			target: "https://example.com/page#section",
			want:   "https://example.com/page",
		},
		{
			name:   "path is preserved",
			target: "example.com/about",
			want:   "https://example.com/about",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeTarget(tt.target); got != tt.want {
				t.Errorf("normalizeTarget(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

// TestBuildConfig tests config construction from command flags.
func TestBuildConfig(t *testing.T) {
	t.Run("defaults with single target", func(t *testing.T) {
		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://example.com" {
			t.Errorf("Targets = %v, want [https://example.com]", cfg.Targets)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("MaxPages = %d, want %d", cfg.MaxPages, config.DefaultMaxPages)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, config.DefaultTimeout)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to default to true")
		}
		if cfg.SiteConfigs == nil {
			t.Error("expected non-nil SiteConfigs")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cmd := NewAuditCmd()
		args := []string{
			"--max-pages", "25",
			"--timeout", "40s",
			"--cookie-accept", "Accept all",
			"--json",
			"--no-save",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxPages != 25 {
			t.Errorf("MaxPages = %d, want 25", cfg.MaxPages)
		}
		if cfg.Timeout != 40*time.Second {
			t.Errorf("Timeout = %v, want 40s", cfg.Timeout)
		}
		if cfg.CookieAccept != "Accept all" {
			t.Errorf("CookieAccept = %q, want 'Accept all'", cfg.CookieAccept)
		}
		if !cfg.JSONReport {
			t.Error("expected JSONReport to be true")
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false with --no-save")
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		cmd := NewAuditCmd()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if err := cmd.ParseFlags([]string{"--config", missing}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		_, err := buildConfig(cmd, []string{"example.com"})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})

	t.Run("explicit config file is loaded", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".seolens")
		content := "sites:\n  example.com:\n    maxPages: 30\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"--config", configPath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		siteConfig := cfg.SiteConfigs.GetSiteConfig("example.com")
		if siteConfig.MaxPages != 30 {
			t.Errorf("site MaxPages = %d, want 30", siteConfig.MaxPages)
		}
	})
}

// TestCreatePipelineForTarget tests pipeline assembly from configuration.
func TestCreatePipelineForTarget(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SiteConfigs = &config.File{
		Sites: map[string]config.SiteConfig{
			"example.com": {MaxPages: 5, CookieAccept: "Accept all"},
		},
	}

	p := createPipelineForTarget(cfg, discardLogger(), "example.com")

	if p.StepCount() != 3 {
		t.Errorf("StepCount() = %d, want 3", p.StepCount())
	}

	names := p.StepNames()
	want := []string{"endpoint_check", "crawl", "close_browser"}
	for i, name := range want {
		if i >= len(names) || names[i] != name {
			t.Errorf("StepNames() = %v, want %v", names, want)
			break
		}
	}
}

// TestOutputReport tests report output to files.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	summary := report.NewSummary(testSite())

	t.Run("writes JSON report to nested path", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.JSONReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "audit.json")

		if err := outputReport(cfg, summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "overall_score") {
			t.Error("expected JSON report to contain overall_score")
		}
		if !strings.Contains(string(content), "version") {
			t.Error("expected JSON report to contain version metadata")
		}
	})

	t.Run("writes markdown report", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "audit.md")

		if err := outputReport(cfg, summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# SEOLens Audit Report") {
			t.Error("expected markdown report header")
		}
	})

	t.Run("writes text report by default", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "audit.txt")

		if err := outputReport(cfg, summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "SEOLENS AUDIT REPORT") {
			t.Error("expected text report header")
		}
	})
}

// TestSaveAuditNilDB tests that saving without a database is a no-op.
func TestSaveAuditNilDB(t *testing.T) {
	t.Parallel()

	summary := report.NewSummary(testSite())
	if err := saveAudit(t.Context(), nil, summary, discardLogger()); err != nil {
		t.Errorf("expected nil error for nil database, got %v", err)
	}
}

// discardLogger returns a logger that drops all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testSite builds a small site fixture for report and database tests.
func testSite() *model.Site {
	site := model.NewSite("https://example.com")
	site.AuditedAt = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	page := model.NewPage("https://example.com")
	page.Status = 200
	page.Title = "Example Site"
	page.WordCount = 200
	page.H1 = []string{"Example"}
	page.LoadTime = time.Second

	site.Pages = []*model.Page{page}
	return site
}
