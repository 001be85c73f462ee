package validation

import (
	"strings"
	"testing"
)

var nyUser = UserConstraints{WakeTime: "08:00", SleepTime: "23:00", TimeZone: "America/New_York"}

func TestCheckBounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		start   string
		end     string
		wantMsg []string
	}{
		{name: "before wake", start: "2025-12-24T11:00:00Z", end: "2025-12-24T12:00:00Z", wantMsg: []string{"before wake"}},
		{name: "afternoon", start: "2025-12-24T19:00:00Z", end: "2025-12-24T20:00:00Z"},
		{name: "ends exactly at sleep", start: "2025-12-25T03:00:00Z", end: "2025-12-25T04:00:00Z"},
		{name: "starts exactly at wake", start: "2025-12-24T13:00:00Z", end: "2025-12-24T14:00:00Z"},
		{name: "one minute past sleep", start: "2025-12-25T03:00:00Z", end: "2025-12-25T04:01:00Z", wantMsg: []string{"after sleep"}},
		{name: "crosses midnight", start: "2025-12-25T04:30:00Z", end: "2025-12-25T05:30:00Z", wantMsg: []string{"after sleep"}},
		{name: "before wake and after sleep", start: "2025-12-24T11:00:00Z", end: "2025-12-25T04:30:00Z", wantMsg: []string{"before wake", "after sleep"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CheckBounds(nyUser, []Block{task(tt.start, tt.end)})
			if len(got) != len(tt.wantMsg) {
				t.Fatalf("got %d errors, want %d: %+v", len(got), len(tt.wantMsg), got)
			}
			for i, e := range got {
				if e.Kind != KindOutsideWakeSleep || e.Severity != SeverityError {
					t.Fatalf("unexpected error: %+v", e)
				}
				if !strings.Contains(e.Message, tt.wantMsg[i]) {
					t.Fatalf("message %q does not mention %q", e.Message, tt.wantMsg[i])
				}
			}
		})
	}
}

func TestCheckBoundsProjectionFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()
	blocks := []Block{
		task("garbage", "2025-12-24T12:00:00Z"),
		task("2025-12-24T11:00:00Z", "2025-12-24T12:00:00Z"),
	}
	got := CheckBounds(nyUser, blocks)
	if len(got) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(got), got)
	}
	if got[0].Kind != KindTimestampInvalid || got[0].BlockIndex != 0 {
		t.Fatalf("first error = %+v, want TIMESTAMP_INVALID on block 0", got[0])
	}
	if got[1].Kind != KindOutsideWakeSleep || got[1].BlockIndex != 1 {
		t.Fatalf("second error = %+v, want OUTSIDE_WAKE_SLEEP on block 1", got[1])
	}
}

func TestCheckBoundsBadConstraints(t *testing.T) {
	t.Parallel()
	cases := []UserConstraints{
		{WakeTime: "08:00", SleepTime: "23:00", TimeZone: "Nowhere/City"},
		{WakeTime: "8am", SleepTime: "23:00", TimeZone: "UTC"},
		{WakeTime: "08:00", SleepTime: "", TimeZone: "UTC"},
	}
	blocks := []Block{
		task("2025-12-24T19:00:00Z", "2025-12-24T20:00:00Z"),
		task("2025-12-24T20:00:00Z", "2025-12-24T21:00:00Z"),
	}
	for _, uc := range cases {
		got := CheckBounds(uc, blocks)
		if len(got) != len(blocks) {
			t.Fatalf("%+v: got %d errors, want %d", uc, len(got), len(blocks))
		}
		for i, e := range got {
			if e.Kind != KindTimestampInvalid || e.BlockIndex != i {
				t.Fatalf("%+v: unexpected error %+v", uc, e)
			}
		}
	}
}
