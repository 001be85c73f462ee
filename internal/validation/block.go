package validation

import (
	"errors"
	"strings"
	"time"
)

// Block is a proposed placement. It is either a TaskBlock or a HabitBlock;
// the interface is sealed so no other variant can exist.
//
// Start and End are the raw instants as proposed. They are parsed by the
// rules, not trusted on input.
type Block interface {
	Interval() (start, end string)
	isBlock()
}

// TaskBlock places one task.
type TaskBlock struct {
	TaskID string
	Start  string
	End    string
}

// HabitBlock places one occurrence of a habit.
type HabitBlock struct {
	HabitID string
	Title   string
	Start   string
	End     string
}

func (b TaskBlock) Interval() (string, string)  { return b.Start, b.End }
func (b HabitBlock) Interval() (string, string) { return b.Start, b.End }

func (TaskBlock) isBlock()  {}
func (HabitBlock) isBlock() {}

var errNoOffset = errors.New("timestamp has no UTC offset")

// ParseInstant parses an absolute RFC 3339 instant. Wall-clock strings
// without an offset are rejected since their zone is ambiguous.
func ParseInstant(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if _, err2 := time.Parse("2006-01-02T15:04:05", s); err2 == nil {
			return time.Time{}, errNoOffset
		}
		return time.Time{}, err
	}
	return t, nil
}

// span is a block with successfully parsed instants.
type span struct {
	index int
	start time.Time
	end   time.Time
}

// parseSpans returns the blocks whose start and end both parse, in input order.
func parseSpans(blocks []Block) []span {
	out := make([]span, 0, len(blocks))
	for i, b := range blocks {
		if b == nil {
			continue
		}
		rs, re := b.Interval()
		s, err := ParseInstant(rs)
		if err != nil {
			continue
		}
		e, err := ParseInstant(re)
		if err != nil {
			continue
		}
		out = append(out, span{index: i, start: s, end: e})
	}
	return out
}
