package model

import (
	"testing"
	"time"
)

func TestNewPage(t *testing.T) {
	t.Parallel()

	p := NewPage("https://example.com/about")

	if p.URL != "https://example.com/about" {
		t.Errorf("URL = %q, want %q", p.URL, "https://example.com/about")
	}
	if p.FinalURL != p.URL {
		t.Errorf("FinalURL = %q, want %q", p.FinalURL, p.URL)
	}
	if p.Status != 0 {
		t.Errorf("Status = %d, want 0", p.Status)
	}
	if p.OG == nil || p.Twitter == nil {
		t.Error("OG and Twitter maps should be initialized")
	}
}

func TestPageHasSocialMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		og      map[string]string
		twitter map[string]string
		want    bool
	}{
		{
			name: "og only",
			og:   map[string]string{"og:title": "Hello"},
			want: true,
		},
		{
			name:    "twitter only",
			twitter: map[string]string{"twitter:card": "summary"},
			want:    true,
		},
		{
			name:    "both",
			og:      map[string]string{"og:title": "Hello"},
			twitter: map[string]string{"twitter:card": "summary"},
			want:    true,
		},
		{
			name: "neither",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPage("https://example.com/")
			for k, v := range tt.og {
				p.OG[k] = v
			}
			for k, v := range tt.twitter {
				p.Twitter[k] = v
			}

			if got := p.HasSocialMeta(); got != tt.want {
				t.Errorf("HasSocialMeta() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageNoIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		metaRobots string
		want       bool
	}{
		{name: "noindex", metaRobots: "noindex", want: true},
		{name: "noindex with nofollow", metaRobots: "noindex, nofollow", want: true},
		{name: "uppercase", metaRobots: "NOINDEX", want: true},
		{name: "index allowed", metaRobots: "index, follow", want: false},
		{name: "empty", metaRobots: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPage("https://example.com/")
			p.MetaRobots = tt.metaRobots

			if got := p.NoIndex(); got != tt.want {
				t.Errorf("NoIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageLoadSeconds(t *testing.T) {
	t.Parallel()

	p := NewPage("https://example.com/")
	p.LoadTime = 1500 * time.Millisecond

	if got := p.LoadSeconds(); got != 1.5 {
		t.Errorf("LoadSeconds() = %v, want 1.5", got)
	}
}
