package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"schedguard/internal/validation"
)

func TestKeywordClassifier(t *testing.T) {
	t.Parallel()
	events := []validation.ExternalEvent{
		{ID: "1", Summary: "Team sync"},
		{ID: "2", Summary: "FOCUS block"},
		{ID: "3", Summary: "Dentist", Movable: true},
		{ID: "4", Summary: "Tentative: lunch"},
	}
	fixed, movable := NewKeywordClassifier(nil).Partition(events)
	if len(fixed) != 1 || fixed[0].ID != "1" {
		t.Fatalf("fixed = %+v", fixed)
	}
	if len(movable) != 3 {
		t.Fatalf("movable = %+v", movable)
	}

	fixed, _ = NewKeywordClassifier([]string{" Dentist "}).Partition(events[:2])
	if len(fixed) != 2 {
		t.Fatalf("custom keywords should replace defaults, fixed = %+v", fixed)
	}
}

type stubSource struct {
	calls int
	err   error
	block bool
}

func (s *stubSource) Events(ctx context.Context, userID string, from, to time.Time) ([]validation.ExternalEvent, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return []validation.ExternalEvent{{ID: "e"}}, nil
}

func TestLimitedPassesThrough(t *testing.T) {
	t.Parallel()
	src := &stubSource{}
	l := NewLimited(src, LimitConfig{})
	evs, err := l.Events(context.Background(), "u1", time.Time{}, time.Time{})
	if err != nil || len(evs) != 1 {
		t.Fatalf("Events = %v, %v", evs, err)
	}
}

func TestLimitedRateLimits(t *testing.T) {
	t.Parallel()
	src := &stubSource{}
	l := NewLimited(src, LimitConfig{RatePerSec: 0.001, Burst: 1, Timeout: 20 * time.Millisecond})

	if _, err := l.Events(context.Background(), "u1", time.Time{}, time.Time{}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err := l.Events(context.Background(), "u1", time.Time{}, time.Time{})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("second call err = %v, want ErrRateLimited", err)
	}
	if src.calls != 1 {
		t.Fatalf("source calls = %d, want 1", src.calls)
	}
}

func TestLimitedTimeout(t *testing.T) {
	t.Parallel()
	src := &stubSource{block: true}
	l := NewLimited(src, LimitConfig{Timeout: 10 * time.Millisecond})
	_, err := l.Events(context.Background(), "u1", time.Time{}, time.Time{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
