package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewChromeDefaults(t *testing.T) {
	t.Parallel()

	c := NewChrome()
	defer c.Close() //nolint:errcheck // test cleanup

	if c.timeout != 25*time.Second {
		t.Errorf("timeout = %v, want 25s", c.timeout)
	}
	if c.userAgent != defaultUserAgent {
		t.Errorf("userAgent = %q, want default", c.userAgent)
	}
	if c.cookieAccept != "" {
		t.Errorf("cookieAccept = %q, want empty", c.cookieAccept)
	}
}

func TestNewChromeOptions(t *testing.T) {
	t.Parallel()

	c := NewChrome(
		WithTimeout(5*time.Second),
		WithCookieAccept("Accept"),
		WithUserAgent("test-agent/1.0"),
		WithChromePath("/opt/chrome/chrome"),
	)
	defer c.Close() //nolint:errcheck // test cleanup

	if c.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.timeout)
	}
	if c.cookieAccept != "Accept" {
		t.Errorf("cookieAccept = %q, want %q", c.cookieAccept, "Accept")
	}
	if c.userAgent != "test-agent/1.0" {
		t.Errorf("userAgent = %q, want %q", c.userAgent, "test-agent/1.0")
	}
	if c.chromePath != "/opt/chrome/chrome" {
		t.Errorf("chromePath = %q, want %q", c.chromePath, "/opt/chrome/chrome")
	}

	// Zero and negative values must not override defaults.
	c2 := NewChrome(WithTimeout(0), WithUserAgent(""))
	defer c2.Close() //nolint:errcheck // test cleanup

	if c2.timeout != 25*time.Second {
		t.Errorf("timeout = %v, want default 25s", c2.timeout)
	}
	if c2.userAgent != defaultUserAgent {
		t.Errorf("userAgent = %q, want default", c2.userAgent)
	}
}

func TestChromeProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "ok",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			want: true,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: false,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: false,
		},
		{
			name: "head rejected but get ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				w.WriteHeader(http.StatusOK)
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewChrome(WithTimeout(2 * time.Second))
			defer c.Close() //nolint:errcheck // test cleanup

			if got := c.Probe(context.Background(), srv.URL); got != tt.want {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChromeProbeUnreachable(t *testing.T) {
	t.Parallel()

	c := NewChrome(WithTimeout(1 * time.Second))
	defer c.Close() //nolint:errcheck // test cleanup

	if c.Probe(context.Background(), "http://127.0.0.1:1/robots.txt") {
		t.Error("Probe should report false for an unreachable endpoint")
	}
}
