package validation

import (
	"fmt"
	"sort"
	"strings"
)

// dailyLookahead is the number of days a daily habit must be covered for.
const dailyLookahead = 7

// requiredOccurrences returns how many placements a habit needs in one
// batch, or 0 when no completeness rule applies.
func requiredOccurrences(h HabitDefinition) int {
	switch h.Frequency {
	case FrequencyDaily:
		return dailyLookahead
	case FrequencyWeekly:
		return len(uniqueWeekdays(h))
	default:
		return 0
	}
}

func uniqueWeekdays(h HabitDefinition) map[int]struct{} {
	m := make(map[int]struct{}, len(h.Weekdays))
	for _, d := range h.Weekdays {
		m[int(d)] = struct{}{}
	}
	return m
}

// CheckHabitCompleteness reports, once per habit, when fewer placements
// than required were proposed. Findings are batch-level. Habits missing
// from habits (unresolved references) are skipped.
func CheckHabitCompleteness(blocks []Block, habits map[string]HabitDefinition) []ValidationError {
	counts := map[string]int{}
	for _, b := range blocks {
		hb, ok := b.(HabitBlock)
		if !ok {
			continue
		}
		id := strings.TrimSpace(hb.HabitID)
		if id == "" {
			continue
		}
		counts[id]++
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []ValidationError
	for _, id := range ids {
		h, ok := habits[id]
		if !ok {
			continue
		}
		need := requiredOccurrences(h)
		got := counts[id]
		if need == 0 || got >= need {
			continue
		}
		title := h.Title
		if strings.TrimSpace(title) == "" {
			title = id
		}
		out = append(out, ValidationError{
			Kind:       KindHabitIncomplete,
			Message:    fmt.Sprintf("Habit %q (%s) has %d of %d required occurrences", title, h.Frequency, got, need),
			BlockIndex: BatchLevel,
			Severity:   SeverityError,
		})
	}
	return out
}
