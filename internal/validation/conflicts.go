package validation

import (
	"fmt"
	"sort"
	"time"
)

// batchSpan returns the earliest start and latest end across spans.
func batchSpan(spans []span) (from, to time.Time, ok bool) {
	for i, s := range spans {
		if i == 0 || s.start.Before(from) {
			from = s.start
		}
		if i == 0 || s.end.After(to) {
			to = s.end
		}
	}
	return from, to, len(spans) > 0
}

// overlaps is the half-open interval test. Touching intervals do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CheckConflicts flags every (block, fixed event) pair that overlaps.
// Blocks with unparseable timestamps are skipped here; the sanity rule
// reports them. loc is used only to render event times in messages and
// may be nil (UTC).
func CheckConflicts(blocks []Block, fixed []ExternalEvent, loc *time.Location) []ValidationError {
	if len(fixed) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	events := append([]ExternalEvent(nil), fixed...)
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		if !events[i].End.Equal(events[j].End) {
			return events[i].End.Before(events[j].End)
		}
		return events[i].ID < events[j].ID
	})

	var out []ValidationError
	for _, s := range parseSpans(blocks) {
		for _, ev := range events {
			if !overlaps(s.start, s.end, ev.Start, ev.End) {
				continue
			}
			out = append(out, ValidationError{
				Kind: KindOverlap,
				Message: fmt.Sprintf("Block %d overlaps with %q (%s-%s)",
					s.index, ev.Summary, ev.Start.In(loc).Format("15:04"), ev.End.In(loc).Format("15:04")),
				BlockIndex: s.index,
				Severity:   SeverityCritical,
			})
		}
	}
	return out
}
