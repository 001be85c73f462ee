package calendar

import (
	"strings"

	"schedguard/internal/validation"
)

// DefaultMovableKeywords mark events the user normally reschedules around.
var DefaultMovableKeywords = []string{"focus", "tentative", "hold", "optional"}

// KeywordClassifier treats an event as movable when the provider flagged
// it so, or when its summary contains one of Keywords (case-insensitive).
// Everything else is fixed.
type KeywordClassifier struct {
	Keywords []string
}

// NewKeywordClassifier normalizes keywords; an empty list falls back to
// DefaultMovableKeywords.
func NewKeywordClassifier(keywords []string) KeywordClassifier {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		out = append(out, DefaultMovableKeywords...)
	}
	return KeywordClassifier{Keywords: out}
}

func (c KeywordClassifier) Partition(events []validation.ExternalEvent) (fixed, movable []validation.ExternalEvent) {
	for _, ev := range events {
		if c.isMovable(ev) {
			movable = append(movable, ev)
		} else {
			fixed = append(fixed, ev)
		}
	}
	return fixed, movable
}

func (c KeywordClassifier) isMovable(ev validation.ExternalEvent) bool {
	if ev.Movable {
		return true
	}
	summary := strings.ToLower(ev.Summary)
	for _, k := range c.Keywords {
		if strings.Contains(summary, k) {
			return true
		}
	}
	return false
}
