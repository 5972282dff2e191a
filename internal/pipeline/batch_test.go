package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/seolens/seolens/internal/model"
)

// markerStep tags the site so tests can tell which pipeline ran.
type markerStep struct{}

func (markerStep) Name() string { return "marker" }

func (markerStep) Do(_ context.Context, site *model.Site) error {
	site.PerformedSteps = append(site.PerformedSteps, "marked")
	return nil
}

func markerFactory(string) (*Pipeline, error) {
	p := New()
	p.AddStep(markerStep{})
	return p, nil
}

func TestProcessBatchPreservesOrder(t *testing.T) {
	t.Parallel()

	targets := []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
	}

	bp := NewBatchProcessor(markerFactory, WithConcurrency(2))
	sites, err := bp.ProcessBatch(context.Background(), targets)
	if err != nil {
		t.Fatalf("ProcessBatch() error: %v", err)
	}

	if len(sites) != len(targets) {
		t.Fatalf("got %d sites, want %d", len(sites), len(targets))
	}
	for i, target := range targets {
		if sites[i] == nil {
			t.Fatalf("sites[%d] is nil", i)
		}
		if sites[i].StartURL != target {
			t.Errorf("sites[%d].StartURL = %q, want %q", i, sites[i].StartURL, target)
		}
		if len(sites[i].PerformedSteps) == 0 {
			t.Errorf("sites[%d] pipeline never ran", i)
		}
	}
}

func TestProcessBatchFactoryFailure(t *testing.T) {
	t.Parallel()

	factoryErr := errors.New("chrome not found")
	factory := func(target string) (*Pipeline, error) {
		if target == "https://bad.example.com" {
			return nil, factoryErr
		}
		return markerFactory(target)
	}

	bp := NewBatchProcessor(factory)
	sites, err := bp.ProcessBatch(context.Background(), []string{
		"https://ok.example.com",
		"https://bad.example.com",
	})
	if err != nil {
		t.Fatalf("ProcessBatch() error: %v", err)
	}

	if sites[0].Error != nil {
		t.Errorf("sites[0].Error = %v, want nil", sites[0].Error)
	}
	if !errors.Is(sites[1].Error, factoryErr) {
		t.Errorf("sites[1].Error = %v, want factory error", sites[1].Error)
	}
	if sites[1].ErrorMessage != "chrome not found" {
		t.Errorf("ErrorMessage = %q", sites[1].ErrorMessage)
	}
}

func TestProcessBatchStepFailureRecorded(t *testing.T) {
	t.Parallel()

	stepErr := errors.New("step exploded")
	factory := func(string) (*Pipeline, error) {
		var calls []string
		p := New()
		p.AddStep(&recordingStep{name: "fails", calls: &calls, err: stepErr})
		return p, nil
	}

	bp := NewBatchProcessor(factory)
	sites, err := bp.ProcessBatch(context.Background(), []string{"https://example.com"})
	if err != nil {
		t.Fatalf("ProcessBatch() error: %v", err)
	}
	if !errors.Is(sites[0].Error, stepErr) {
		t.Errorf("sites[0].Error = %v, want step error", sites[0].Error)
	}
}

func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	targets := []string{"https://a.example.com", "https://b.example.com"}

	var mu sync.Mutex
	seen := make(map[int]string)

	bp := NewBatchProcessor(markerFactory, WithConcurrency(1))
	err := bp.ProcessBatchWithCallback(context.Background(), targets,
		func(site *model.Site, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = site.StartURL
		})
	if err != nil {
		t.Fatalf("ProcessBatchWithCallback() error: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("callback ran %d times, want 2", len(seen))
	}
	for i, target := range targets {
		if seen[i] != target {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], target)
		}
	}
}

func TestProcessBatchCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(markerFactory)
	_, err := bp.ProcessBatch(ctx, []string{"https://example.com"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessBatch() error = %v, want context.Canceled", err)
	}
}
