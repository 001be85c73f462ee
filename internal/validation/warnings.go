package validation

import (
	"fmt"
	"sort"
	"time"
)

const (
	minGap = 5 * time.Minute

	lateNightFromHour = 22
	lateNightToHour   = 6
)

// CheckWarnings runs the advisory heuristics. The input order is not modified.
func CheckWarnings(blocks []Block) []ValidationWarning {
	spans := parseSpans(blocks)
	var out []ValidationWarning

	sorted := append([]span(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].start.Equal(sorted[j].start) {
			return sorted[i].start.Before(sorted[j].start)
		}
		return sorted[i].index < sorted[j].index
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		gap := cur.start.Sub(prev.end)
		if gap < minGap {
			out = append(out, ValidationWarning{
				Kind:       WarnConsecutiveBlocks,
				Message:    fmt.Sprintf("Block %d starts %s after block %d ends; consider a break", cur.index, formatMinutes(gap), prev.index),
				BlockIndex: cur.index,
			})
		}
	}

	// The hour is read in UTC, not the user's zone. Kept as is until the
	// intended zone for this heuristic is settled.
	for _, s := range spans {
		h := s.end.UTC().Hour()
		if h >= lateNightFromHour || h < lateNightToHour {
			out = append(out, ValidationWarning{
				Kind:       WarnLateNight,
				Message:    fmt.Sprintf("Block %d ends late at night (%02d:%02d UTC)", s.index, h, s.end.UTC().Minute()),
				BlockIndex: s.index,
			})
		}
	}
	return out
}
