package validation

import (
	"fmt"
	"time"
)

const (
	minBlockDuration = 5 * time.Minute
	// Longer blocks are more likely an offset emitted in the wrong unit or
	// zone than a real placement.
	maxBlockDuration = 480 * time.Minute
)

// CheckSanity validates timestamp well-formedness, ordering and duration
// bounds. It needs no external data.
func CheckSanity(blocks []Block) []ValidationError {
	var out []ValidationError
	for i, b := range blocks {
		if b == nil {
			continue
		}
		rs, re := b.Interval()
		start, errS := ParseInstant(rs)
		end, errE := ParseInstant(re)
		if errS != nil || errE != nil {
			out = append(out, ValidationError{
				Kind:       KindTimestampInvalid,
				Message:    fmt.Sprintf("Block %d has an invalid timestamp (start %q, end %q)", i, rs, re),
				BlockIndex: i,
				Severity:   SeverityCritical,
			})
			continue
		}

		d := end.Sub(start)
		if d < minBlockDuration {
			out = append(out, ValidationError{
				Kind:       KindTimestampInvalid,
				Message:    fmt.Sprintf("Block %d is too short (%s, minimum %s)", i, formatMinutes(d), formatMinutes(minBlockDuration)),
				BlockIndex: i,
				Severity:   SeverityError,
			})
		}
		if d > maxBlockDuration {
			out = append(out, ValidationError{
				Kind:       KindTimestampInvalid,
				Message:    fmt.Sprintf("Block %d has a suspicious duration (%s), possible time zone error", i, formatMinutes(d)),
				BlockIndex: i,
				Severity:   SeverityError,
			})
		}
		if !end.After(start) {
			out = append(out, ValidationError{
				Kind:       KindTimestampInvalid,
				Message:    fmt.Sprintf("Block %d ends before or at its start", i),
				BlockIndex: i,
				Severity:   SeverityCritical,
			})
		}
	}
	return out
}

func formatMinutes(d time.Duration) string {
	m := d.Minutes()
	if m == float64(int64(m)) {
		return fmt.Sprintf("%d min", int64(m))
	}
	return fmt.Sprintf("%.1f min", m)
}
