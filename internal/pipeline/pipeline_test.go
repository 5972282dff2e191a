package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/seolens/seolens/internal/model"
)

// recordingStep is a test step that records invocations and can fail.
type recordingStep struct {
	name   string
	err    error
	calls  *[]string
	onDone func(site *model.Site)
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, site *model.Site) error {
	*s.calls = append(*s.calls, s.name)
	if s.onDone != nil {
		s.onDone(site)
	}
	return s.err
}

func TestPipelineExecutesStepsInOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "first", calls: &calls},
		&recordingStep{name: "second", calls: &calls},
		&recordingStep{name: "third", calls: &calls},
	)

	site := model.NewSite("https://example.com")
	if err := p.Execute(context.Background(), site); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("call order = %v, want %v", calls, want)
	}
	if !reflect.DeepEqual(site.PerformedSteps, want) {
		t.Errorf("PerformedSteps = %v, want %v", site.PerformedSteps, want)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	var calls []string
	stepErr := errors.New("boom")

	p := New()
	p.AddSteps(
		&recordingStep{name: "ok", calls: &calls},
		&recordingStep{name: "fails", calls: &calls, err: stepErr},
		&recordingStep{name: "never", calls: &calls},
	)

	site := model.NewSite("https://example.com")
	err := p.Execute(context.Background(), site)
	if !errors.Is(err, stepErr) {
		t.Fatalf("Execute() error = %v, want %v", err, stepErr)
	}

	if !reflect.DeepEqual(calls, []string{"ok", "fails"}) {
		t.Errorf("call order = %v, want stop after failure", calls)
	}
	if site.ErrorMessage != "boom" {
		t.Errorf("ErrorMessage = %q, want %q", site.ErrorMessage, "boom")
	}
}

func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New(WithContinueOnError(true))
	p.AddSteps(
		&recordingStep{name: "fails", calls: &calls, err: errors.New("boom")},
		&recordingStep{name: "still-runs", calls: &calls},
	)

	site := model.NewSite("https://example.com")
	if err := p.Execute(context.Background(), site); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if !reflect.DeepEqual(calls, []string{"fails", "still-runs"}) {
		t.Errorf("call order = %v, want both steps to run", calls)
	}
}

func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.AddSteps(&recordingStep{name: "never", calls: &calls})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	site := model.NewSite("https://example.com")
	err := p.Execute(ctx, site)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if !site.TimedOut {
		t.Error("TimedOut should be set on cancellation")
	}
	if len(calls) != 0 {
		t.Errorf("steps ran after cancellation: %v", calls)
	}
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.AddStep(&recordingStep{name: "a", calls: &calls})
	p.AddStep(&recordingStep{name: "b", calls: &calls})

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, want 2", p.StepCount())
	}
	if got := p.StepNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("StepNames() = %v", got)
	}
}
