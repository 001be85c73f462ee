package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"schedguard/internal/validation"
)

// ErrRateLimited is returned when a fetch could not get a token in time.
var ErrRateLimited = errors.New("calendar provider rate limited")

// LimitConfig bounds calls to the provider.
type LimitConfig struct {
	RatePerSec float64
	Burst      int
	// Timeout bounds each fetch including the wait for a token. 0 disables it.
	Timeout time.Duration
}

// Limited wraps a CalendarSource with a token bucket and per-call timeout.
// Any failure it adds is an ordinary source error to the engine, which
// fails open on it.
type Limited struct {
	src     validation.CalendarSource
	limiter *rate.Limiter
	timeout time.Duration
}

func NewLimited(src validation.CalendarSource, cfg LimitConfig) *Limited {
	lim := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return &Limited{src: src, limiter: lim, timeout: cfg.Timeout}
}

func (l *Limited) Events(ctx context.Context, userID string, from, to time.Time) ([]validation.ExternalEvent, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	evs, err := l.src.Events(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("calendar fetch: %w", err)
	}
	return evs, nil
}
