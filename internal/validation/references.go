package validation

import (
	"fmt"
	"sort"
	"strings"
)

// referenceSets returns the deduplicated, sorted task and habit ids referenced by blocks.
func referenceSets(blocks []Block) (taskIDs, habitIDs []string) {
	tasks := map[string]struct{}{}
	habits := map[string]struct{}{}
	for _, b := range blocks {
		switch v := b.(type) {
		case TaskBlock:
			if id := strings.TrimSpace(v.TaskID); id != "" {
				tasks[id] = struct{}{}
			}
		case HabitBlock:
			if id := strings.TrimSpace(v.HabitID); id != "" {
				habits[id] = struct{}{}
			}
		}
	}
	return sortedKeys(tasks), sortedKeys(habits)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CheckReferences flags every block whose task or habit is not among the
// user's resolved entities. Tasks and habits share one error kind.
func CheckReferences(blocks []Block, existingTasks map[string]struct{}, habits map[string]HabitDefinition) []ValidationError {
	var out []ValidationError
	for i, b := range blocks {
		var msg string
		switch v := b.(type) {
		case TaskBlock:
			id := strings.TrimSpace(v.TaskID)
			switch {
			case id == "":
				msg = fmt.Sprintf("Block %d has an empty task id", i)
			default:
				if _, ok := existingTasks[id]; !ok {
					msg = fmt.Sprintf("Task %q does not exist", id)
				}
			}
		case HabitBlock:
			id := strings.TrimSpace(v.HabitID)
			switch {
			case id == "":
				msg = fmt.Sprintf("Block %d has an empty habit id", i)
			default:
				if _, ok := habits[id]; !ok {
					msg = fmt.Sprintf("Habit %q does not exist", id)
				}
			}
		default:
			msg = fmt.Sprintf("Block %d has no task or habit reference", i)
		}
		if msg == "" {
			continue
		}
		out = append(out, ValidationError{
			Kind:       KindInvalidReference,
			Message:    msg,
			BlockIndex: i,
			Severity:   SeverityCritical,
		})
	}
	return out
}
