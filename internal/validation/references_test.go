package validation

import (
	"reflect"
	"strings"
	"testing"
)

func TestReferenceSetsDedupAndSort(t *testing.T) {
	t.Parallel()
	tasks, habits := referenceSets([]Block{
		TaskBlock{TaskID: "t2"},
		HabitBlock{HabitID: "h1"},
		TaskBlock{TaskID: "t1"},
		TaskBlock{TaskID: "t2"},
		HabitBlock{HabitID: " "},
	})
	if !reflect.DeepEqual(tasks, []string{"t1", "t2"}) {
		t.Fatalf("tasks = %v", tasks)
	}
	if !reflect.DeepEqual(habits, []string{"h1"}) {
		t.Fatalf("habits = %v", habits)
	}
}

func TestCheckReferences(t *testing.T) {
	t.Parallel()
	blocks := []Block{
		TaskBlock{TaskID: "t1"},
		TaskBlock{TaskID: "ghost-task"},
		HabitBlock{HabitID: "h1"},
		HabitBlock{HabitID: "ghost-habit"},
		TaskBlock{TaskID: ""},
		nil,
	}
	existing := map[string]struct{}{"t1": {}}
	habits := map[string]HabitDefinition{"h1": {ID: "h1"}}

	got := CheckReferences(blocks, existing, habits)
	if len(got) != 4 {
		t.Fatalf("got %d errors, want 4: %+v", len(got), got)
	}
	wantIdx := []int{1, 3, 4, 5}
	for i, e := range got {
		if e.Kind != KindInvalidReference || e.Severity != SeverityCritical {
			t.Fatalf("unexpected error: %+v", e)
		}
		if e.BlockIndex != wantIdx[i] {
			t.Fatalf("error %d index = %d, want %d", i, e.BlockIndex, wantIdx[i])
		}
	}
	if !strings.Contains(got[0].Message, "ghost-task") || !strings.Contains(got[1].Message, "ghost-habit") {
		t.Fatalf("messages must name the offending id: %q / %q", got[0].Message, got[1].Message)
	}
}
