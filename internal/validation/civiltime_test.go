package validation

import (
	"testing"
	"time"
)

func TestProjectCivilHonorsDST(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		instant string
		zone    string
		want    CivilTime
	}{
		{
			name:    "new york winter (EST)",
			instant: "2025-12-24T11:00:00Z",
			zone:    "America/New_York",
			want:    CivilTime{Year: 2025, Month: time.December, Day: 24, Hour: 6},
		},
		{
			name:    "new york summer (EDT)",
			instant: "2025-07-04T16:30:15Z",
			zone:    "America/New_York",
			want:    CivilTime{Year: 2025, Month: time.July, Day: 4, Hour: 12, Minute: 30, Second: 15},
		},
		{
			name:    "day rolls back across midnight",
			instant: "2025-12-25T04:00:00Z",
			zone:    "America/New_York",
			want:    CivilTime{Year: 2025, Month: time.December, Day: 24, Hour: 23},
		},
		{
			name:    "half hour zone",
			instant: "2025-01-01T00:00:00Z",
			zone:    "Asia/Kolkata",
			want:    CivilTime{Year: 2025, Month: time.January, Day: 1, Hour: 5, Minute: 30},
		},
		{
			name:    "instant just after spring forward",
			instant: "2025-03-09T07:00:00Z",
			zone:    "America/New_York",
			want:    CivilTime{Year: 2025, Month: time.March, Day: 9, Hour: 3},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in, err := time.Parse(time.RFC3339, tt.instant)
			if err != nil {
				t.Fatalf("parse fixture: %v", err)
			}
			got, err := ProjectCivil(in, tt.zone)
			if err != nil {
				t.Fatalf("ProjectCivil error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ProjectCivil = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProjectCivilRejectsAmbiguousZones(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, zone := range []string{"", "Local", "Mars/Olympus_Mons"} {
		if _, err := ProjectCivil(now, zone); err == nil {
			t.Fatalf("ProjectCivil(%q) expected error", zone)
		}
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()
	got, err := ParseClock("23:15")
	if err != nil {
		t.Fatalf("ParseClock error: %v", err)
	}
	if got != 23*60+15 {
		t.Fatalf("ParseClock = %d", got)
	}
	for _, bad := range []string{"24:00", "7:00", "07:60", "ab:cd", ""} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q) expected error", bad)
		}
	}
}

func TestParseInstantRequiresOffset(t *testing.T) {
	t.Parallel()
	if _, err := ParseInstant("2025-12-24T11:00:00"); err == nil {
		t.Fatal("expected offset-less timestamp to be rejected")
	}
	got, err := ParseInstant("2025-12-24T06:00:00-05:00")
	if err != nil {
		t.Fatalf("ParseInstant error: %v", err)
	}
	if !got.Equal(time.Date(2025, 12, 24, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("ParseInstant = %v", got)
	}
}
