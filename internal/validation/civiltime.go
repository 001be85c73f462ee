package validation

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone rules must not depend on the host's zoneinfo
)

// CivilTime is the wall-clock reading of an instant in some zone.
type CivilTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// MinutesSinceMidnight ignores seconds.
func (c CivilTime) MinutesSinceMidnight() int { return c.Hour*60 + c.Minute }

// LoadZone resolves an IANA zone identifier. The empty string and "Local"
// are rejected so results never depend on the host default zone.
func LoadZone(zone string) (*time.Location, error) {
	z := strings.TrimSpace(zone)
	if z == "" || strings.EqualFold(z, "local") {
		return nil, fmt.Errorf("invalid time zone %q", zone)
	}
	loc, err := time.LoadLocation(z)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", zone, err)
	}
	return loc, nil
}

// ProjectCivil converts an absolute instant into wall-clock components in
// the named zone, honoring any DST offset in effect at that instant.
func ProjectCivil(t time.Time, zone string) (CivilTime, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return CivilTime{}, err
	}
	return civilIn(t, loc), nil
}

func civilIn(t time.Time, loc *time.Location) CivilTime {
	l := t.In(loc)
	return CivilTime{
		Year:   l.Year(),
		Month:  l.Month(),
		Day:    l.Day(),
		Hour:   l.Hour(),
		Minute: l.Minute(),
		Second: l.Second(),
	}
}

// ParseClock parses a strict "HH:MM" local clock value into minutes since midnight.
func ParseClock(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", raw)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", raw)
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	if hh > 23 || mm > 59 {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	return hh*60 + mm, nil
}
