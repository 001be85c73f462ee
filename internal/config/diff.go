package config

import (
	"reflect"
	"sort"
	"strings"

	logx "schedguard/pkg/logx"
)

// SummarizeChange returns a compact, sorted list of changed sections and
// structured attrs for logging.
func SummarizeChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	attrs := make([]logx.Field, 0, 12)

	if !reflect.DeepEqual(oldCfg.Logging, newCfg.Logging) {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	var oS, nS StorageConfig
	if oldCfg.Storage != nil {
		oS = *oldCfg.Storage
	}
	if newCfg.Storage != nil {
		nS = *newCfg.Storage
	}
	if oS != nS {
		changed = append(changed, "storage")
		attrs = append(attrs,
			logx.String("storage.driver", strings.TrimSpace(nS.Driver)),
			logx.Bool("storage.path_set", strings.TrimSpace(nS.Path) != ""),
		)
	}

	if !reflect.DeepEqual(oldCfg.Calendar, newCfg.Calendar) {
		changed = append(changed, "calendar")
		attrs = append(attrs,
			logx.Any("calendar.rate_per_sec", newCfg.Calendar.RatePerSec),
			logx.Int("calendar.burst", newCfg.Calendar.Burst),
			logx.String("calendar.timeout", strings.TrimSpace(newCfg.Calendar.Timeout)),
			logx.Int("calendar.movable_keywords", len(newCfg.Calendar.MovableKeywords)),
		)
	}

	if oldCfg.Validation != newCfg.Validation {
		changed = append(changed, "validation")
		attrs = append(attrs,
			logx.Bool("validation.allow_overlaps", newCfg.Validation.AllowOverlaps),
			logx.Bool("validation.strict_habit_validation", newCfg.Validation.StrictHabitValidation),
		)
	}

	if !reflect.DeepEqual(oldCfg.Inbox, newCfg.Inbox) {
		changed = append(changed, "inbox")
		if newCfg.Inbox != nil {
			attrs = append(attrs,
				logx.String("inbox.dir", newCfg.Inbox.Dir),
				logx.String("inbox.rescan", newCfg.Inbox.Rescan),
			)
		}
	}

	sort.Strings(changed)
	return changed, attrs
}
