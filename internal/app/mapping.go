package app

import (
	"strings"

	"schedguard/internal/calendar"
	"schedguard/internal/config"
	"schedguard/internal/inbox"
	"schedguard/internal/store"
	"schedguard/internal/validation"
	logx "schedguard/pkg/logx"
)

func mapLogging(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

// mapStorage falls back to an in-memory store when no storage section is set.
func mapStorage(cfg *config.Config) (store.Config, error) {
	if cfg.Storage == nil {
		return store.Config{Driver: "memory"}, nil
	}
	sc := cfg.Storage
	driver := strings.ToLower(strings.TrimSpace(sc.Driver))
	busy, err := sc.BusyTimeoutOrDefault()
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{Driver: driver, Path: strings.TrimSpace(sc.Path), BusyTimeout: busy}, nil
}

func mapCalendar(cfg *config.Config) (calendar.LimitConfig, error) {
	timeout, err := cfg.Calendar.TimeoutOrDefault()
	if err != nil {
		return calendar.LimitConfig{}, err
	}
	return calendar.LimitConfig{
		RatePerSec: cfg.Calendar.RatePerSec,
		Burst:      cfg.Calendar.Burst,
		Timeout:    timeout,
	}, nil
}

func mapOptions(cfg *config.Config) validation.Options {
	return validation.Options{
		AllowOverlaps:         cfg.Validation.AllowOverlaps,
		StrictHabitValidation: cfg.Validation.StrictHabitValidation,
	}
}

func mapInbox(cfg *config.Config) (inbox.Config, bool) {
	if cfg.Inbox == nil {
		return inbox.Config{}, false
	}
	return inbox.Config{
		Dir:      cfg.Inbox.Dir,
		OutDir:   cfg.Inbox.OutDir,
		Rescan:   cfg.Inbox.Rescan,
		Timezone: cfg.Inbox.Timezone,
	}, true
}
