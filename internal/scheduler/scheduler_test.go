package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/generation"
)

type generationRunnerMock struct {
	RunFunc func(ctx context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error)
}

func (m *generationRunnerMock) Run(ctx context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error) {
	return m.RunFunc(ctx, asOf, source)
}

func TestDailySpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "05:00", want: "0 5 * * *"},
		{in: "00:00", want: "0 0 * * *"},
		{in: "23:59", want: "59 23 * * *"},
		{in: "5am", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := dailySpec(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNew_InvalidRunTime(t *testing.T) {
	t.Parallel()

	_, err := New(&generationRunnerMock{}, "noon", time.Minute, slog.Default())
	if err == nil {
		t.Fatal("expected error for invalid run time")
	}
}

func TestRunOnce_ScheduledSource(t *testing.T) {
	t.Parallel()

	var gotSource domain.TriggerSource
	var gotAsOf time.Time
	gen := &generationRunnerMock{
		RunFunc: func(ctx context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected run context to carry a deadline")
			}
			gotSource = source
			gotAsOf = asOf
			return generation.Report{Created: 1}, nil
		},
	}

	s, err := New(gen, "05:00", time.Minute, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.runOnce()

	if gotSource != domain.TriggerSourceScheduled {
		t.Errorf("expected SCHEDULED trigger, got %s", gotSource)
	}
	if time.Since(gotAsOf) > time.Minute {
		t.Errorf("expected as_of near now, got %v", gotAsOf)
	}
}

func TestRunOnce_FailureIsNotFatal(t *testing.T) {
	t.Parallel()

	gen := &generationRunnerMock{
		RunFunc: func(_ context.Context, _ time.Time, _ domain.TriggerSource) (generation.Report, error) {
			return generation.Report{}, errors.New("pool exhausted")
		},
	}

	s, err := New(gen, "05:00", time.Minute, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Must log and return, not panic.
	s.runOnce()
}
