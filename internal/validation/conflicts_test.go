package validation

import (
	"strings"
	"testing"
	"time"
)

func mustInstant(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestCheckConflictsHalfOpen(t *testing.T) {
	t.Parallel()
	ny, err := LoadZone("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	// 14:00-16:00 New York local.
	meeting := ExternalEvent{
		ID:      "ev1",
		Summary: "Team sync",
		Start:   mustInstant(t, "2025-12-24T19:00:00Z"),
		End:     mustInstant(t, "2025-12-24T21:00:00Z"),
	}

	tests := []struct {
		name    string
		start   string
		end     string
		overlap bool
	}{
		{name: "inside second half", start: "2025-12-24T20:00:00Z", end: "2025-12-24T21:00:00Z", overlap: true},
		{name: "covers event", start: "2025-12-24T18:00:00Z", end: "2025-12-24T22:00:00Z", overlap: true},
		{name: "well before", start: "2025-12-24T17:00:00Z", end: "2025-12-24T18:00:00Z"},
		{name: "touches end", start: "2025-12-24T21:00:00Z", end: "2025-12-24T22:00:00Z"},
		{name: "touches start", start: "2025-12-24T18:00:00Z", end: "2025-12-24T19:00:00Z"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CheckConflicts([]Block{task(tt.start, tt.end)}, []ExternalEvent{meeting}, ny)
			if !tt.overlap {
				if len(got) != 0 {
					t.Fatalf("expected no overlap, got %+v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("got %d errors, want 1", len(got))
			}
			e := got[0]
			if e.Kind != KindOverlap || e.Severity != SeverityCritical {
				t.Fatalf("unexpected error: %+v", e)
			}
			if !strings.Contains(e.Message, "Team sync") || !strings.Contains(e.Message, "14:00-16:00") {
				t.Fatalf("message %q must name the event and its local range", e.Message)
			}
		})
	}
}

func TestCheckConflictsSkipsUnparseableBlocks(t *testing.T) {
	t.Parallel()
	ev := ExternalEvent{ID: "e", Summary: "x", Start: mustInstant(t, "2025-12-24T19:00:00Z"), End: mustInstant(t, "2025-12-24T21:00:00Z")}
	got := CheckConflicts([]Block{task("bad", "2025-12-24T20:00:00Z")}, []ExternalEvent{ev}, nil)
	if len(got) != 0 {
		t.Fatalf("expected unparseable block to be skipped, got %+v", got)
	}
}

func TestBatchSpan(t *testing.T) {
	t.Parallel()
	spans := parseSpans([]Block{
		task("2025-12-24T19:00:00Z", "2025-12-24T20:00:00Z"),
		task("bad", "bad"),
		task("2025-12-24T15:00:00Z", "2025-12-24T16:00:00Z"),
		task("2025-12-24T21:00:00Z", "2025-12-24T23:00:00Z"),
	})
	from, to, ok := batchSpan(spans)
	if !ok {
		t.Fatal("expected span")
	}
	if !from.Equal(mustInstant(t, "2025-12-24T15:00:00Z")) || !to.Equal(mustInstant(t, "2025-12-24T23:00:00Z")) {
		t.Fatalf("span = %v..%v", from, to)
	}
	if _, _, ok := batchSpan(nil); ok {
		t.Fatal("empty input must report no span")
	}
}
