package database

import (
	"context"
	"testing"
	"time"

	"github.com/seolens/seolens/internal/model"
)

// openTestDB opens a fresh AuditDB in a temporary directory.
func openTestDB(t *testing.T) *AuditDB {
	t.Helper()

	adb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() {
		if err := adb.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return adb
}

// sampleSite builds a site with one audited page for storage tests.
func sampleSite(startURL string) *model.Site {
	site := model.NewSite(startURL)
	p := model.NewPage(startURL)
	p.Status = 200
	p.Title = "Home"
	p.WordCount = 250
	site.Pages = append(site.Pages, p)
	return site
}

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	if adb.dbPath == "" {
		t.Error("expected dbPath to be set")
	}
}

func TestOpenWithoutCreateFails(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
	if err == nil {
		t.Fatal("expected error when database does not exist")
	}
}

func TestSaveAuditAndLatest(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	site := sampleSite("https://example.com")
	if err := adb.SaveAudit(ctx, site, 78, "C"); err != nil {
		t.Fatalf("SaveAudit() error: %v", err)
	}

	record, err := adb.LatestAudit(ctx, "example.com")
	if err != nil {
		t.Fatalf("LatestAudit() error: %v", err)
	}
	if record == nil {
		t.Fatal("LatestAudit() returned nil for a saved host")
	}

	if record.Host != "example.com" {
		t.Errorf("Host = %q, want example.com", record.Host)
	}
	if record.OverallScore != 78 {
		t.Errorf("OverallScore = %d, want 78", record.OverallScore)
	}
	if record.Grade != "C" {
		t.Errorf("Grade = %q, want C", record.Grade)
	}
	if record.PagesAudited != 1 {
		t.Errorf("PagesAudited = %d, want 1", record.PagesAudited)
	}
	if record.Site == nil || len(record.Site.Pages) != 1 {
		t.Fatal("stored site record did not round-trip")
	}
	if record.Site.Pages[0].Title != "Home" {
		t.Errorf("page Title = %q, want Home", record.Site.Pages[0].Title)
	}
}

func TestLatestAuditUnknownHost(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)

	record, err := adb.LatestAudit(context.Background(), "never-audited.example")
	if err != nil {
		t.Fatalf("LatestAudit() error: %v", err)
	}
	if record != nil {
		t.Errorf("expected nil record for unknown host, got %+v", record)
	}
}

func TestLatestAuditPicksNewest(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	site := sampleSite("https://example.com")
	if err := adb.SaveAudit(ctx, site, 60, "D"); err != nil {
		t.Fatalf("SaveAudit() error: %v", err)
	}
	if err := adb.SaveAudit(ctx, site, 82, "B"); err != nil {
		t.Fatalf("SaveAudit() error: %v", err)
	}

	record, err := adb.LatestAudit(ctx, "example.com")
	if err != nil {
		t.Fatalf("LatestAudit() error: %v", err)
	}
	if record.OverallScore != 82 {
		t.Errorf("OverallScore = %d, want the newest audit (82)", record.OverallScore)
	}
}

func TestAuditHistory(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	site := sampleSite("https://example.com")
	scores := []struct {
		score int
		grade string
	}{
		{55, "D"},
		{71, "C"},
		{90, "A"},
	}
	for _, s := range scores {
		if err := adb.SaveAudit(ctx, site, s.score, s.grade); err != nil {
			t.Fatalf("SaveAudit() error: %v", err)
		}
	}

	history, err := adb.AuditHistory(ctx, "example.com")
	if err != nil {
		t.Fatalf("AuditHistory() error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d history entries, want 3", len(history))
	}

	// Newest first
	if history[0].OverallScore != 90 || history[2].OverallScore != 55 {
		t.Errorf("history order wrong: %+v", history)
	}
	for _, meta := range history {
		if meta.Host != "example.com" {
			t.Errorf("Host = %q, want example.com", meta.Host)
		}
		if meta.AuditedAt.IsZero() {
			t.Error("AuditedAt should be populated")
		}
	}
}

func TestAuditHistoryEmpty(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)

	history, err := adb.AuditHistory(context.Background(), "nobody.example")
	if err != nil {
		t.Fatalf("AuditHistory() error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d entries, want 0", len(history))
	}
}

func TestAuditByID(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	site := sampleSite("https://example.com")
	if err := adb.SaveAudit(ctx, site, 78, "C"); err != nil {
		t.Fatalf("SaveAudit() error: %v", err)
	}

	history, err := adb.AuditHistory(ctx, "example.com")
	if err != nil || len(history) != 1 {
		t.Fatalf("AuditHistory() = (%v, %v)", history, err)
	}

	record, err := adb.AuditByID(ctx, history[0].ID)
	if err != nil {
		t.Fatalf("AuditByID() error: %v", err)
	}
	if record == nil || record.ID != history[0].ID {
		t.Fatalf("AuditByID() = %+v, want record %d", record, history[0].ID)
	}

	missing, err := adb.AuditByID(ctx, 999999)
	if err != nil {
		t.Fatalf("AuditByID() error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown ID, got %+v", missing)
	}
}

func TestListAuditedHosts(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	for _, u := range []string{"https://b.example", "https://a.example", "https://b.example"} {
		if err := adb.SaveAudit(ctx, sampleSite(u), 70, "C"); err != nil {
			t.Fatalf("SaveAudit() error: %v", err)
		}
	}

	hosts, err := adb.ListAuditedHosts(ctx)
	if err != nil {
		t.Fatalf("ListAuditedHosts() error: %v", err)
	}
	if len(hosts) != 2 {
		t.Fatalf("got %d hosts, want 2 distinct: %v", len(hosts), hosts)
	}
	if hosts[0] != "a.example" || hosts[1] != "b.example" {
		t.Errorf("hosts = %v, want sorted [a.example b.example]", hosts)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"sqlite default", "2026-08-23 10:30:00", true},
		{"iso8601 with Z", "2026-08-23T10:30:00Z", true},
		{"rfc3339", "2026-08-23T10:30:00+02:00", true},
		{"with milliseconds", "2026-08-23 10:30:00.123", true},
		{"garbage", "not-a-timestamp", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if tt.valid && got.IsZero() {
				t.Errorf("parseTimestamp(%q) returned zero time", tt.input)
			}
			if !tt.valid && !got.IsZero() {
				t.Errorf("parseTimestamp(%q) = %v, want zero time", tt.input, got)
			}
		})
	}
}

func TestSaveAuditPreservesEndpointChecks(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	site := sampleSite("https://example.com")
	ok := true
	missing := false
	site.RobotsOK = &ok
	site.SitemapOK = &missing
	site.AuditedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := adb.SaveAudit(ctx, site, 70, "C"); err != nil {
		t.Fatalf("SaveAudit() error: %v", err)
	}

	record, err := adb.LatestAudit(ctx, "example.com")
	if err != nil || record == nil {
		t.Fatalf("LatestAudit() = (%v, %v)", record, err)
	}

	if record.Site.RobotsOK == nil || !*record.Site.RobotsOK {
		t.Error("RobotsOK did not round-trip as true")
	}
	if record.Site.SitemapOK == nil || *record.Site.SitemapOK {
		t.Error("SitemapOK did not round-trip as false")
	}
	if record.Site.LLMSOK != nil {
		t.Error("LLMSOK should round-trip as nil (never checked)")
	}
}
