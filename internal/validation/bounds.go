package validation

import (
	"fmt"
)

// CheckBounds checks every block against the user's wake/sleep window in
// the user's own zone. A block that cannot be projected (bad zone, bad
// clock value, bad timestamp) yields TIMESTAMP_INVALID and the remaining
// blocks are still checked.
func CheckBounds(uc UserConstraints, blocks []Block) []ValidationError {
	var out []ValidationError

	wake, errW := ParseClock(uc.WakeTime)
	sleep, errS := ParseClock(uc.SleepTime)
	loc, errZ := LoadZone(uc.TimeZone)

	for i, b := range blocks {
		if b == nil {
			continue
		}
		rs, re := b.Interval()

		var projErr error
		switch {
		case errZ != nil:
			projErr = errZ
		case errW != nil:
			projErr = errW
		case errS != nil:
			projErr = errS
		}
		start, err := ParseInstant(rs)
		if projErr == nil && err != nil {
			projErr = err
		}
		end, err := ParseInstant(re)
		if projErr == nil && err != nil {
			projErr = err
		}
		if projErr != nil {
			out = append(out, ValidationError{
				Kind:       KindTimestampInvalid,
				Message:    fmt.Sprintf("Block %d could not be converted to local time: %v", i, projErr),
				BlockIndex: i,
				Severity:   SeverityError,
			})
			continue
		}

		cs := civilIn(start, loc)
		ce := civilIn(end, loc)
		startMin := cs.MinutesSinceMidnight()
		endMin := ce.MinutesSinceMidnight()

		if startMin < wake {
			out = append(out, ValidationError{
				Kind:       KindOutsideWakeSleep,
				Message:    fmt.Sprintf("Block %d starts at %02d:%02d, before wake time %s", i, cs.Hour, cs.Minute, uc.WakeTime),
				BlockIndex: i,
				Severity:   SeverityError,
			})
		}

		// Ending exactly at the sleep minute is allowed.
		crossesMidnight := endMin < startMin
		if crossesMidnight || endMin > sleep {
			out = append(out, ValidationError{
				Kind:       KindOutsideWakeSleep,
				Message:    fmt.Sprintf("Block %d ends at %02d:%02d, after sleep time %s", i, ce.Hour, ce.Minute, uc.SleepTime),
				BlockIndex: i,
				Severity:   SeverityError,
			})
		}
	}
	return out
}
