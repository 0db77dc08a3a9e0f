// Package readiness blocks a transition until a downstream dependency
// reports ready, bounded on both sides: a minimum duration so the
// "preparing" state is perceivable, and a maximum timeout so the user is
// never stuck.
package readiness

import (
	"context"
	"log/slog"
	"time"
)

// Predicate reports whether the awaited dependency is ready. It must be
// cheap: it is called once per poll interval.
type Predicate func(ctx context.Context) bool

// Options bound a single wait session.
type Options struct {
	// MinimumDuration is the least wall-clock time Await takes when the
	// predicate succeeds, padding out instant transitions.
	MinimumDuration time.Duration

	// MaximumTimeout caps the whole wait. Zero or negative means a
	// single predicate check with no polling.
	MaximumTimeout time.Duration

	// PollInterval is the sleep between predicate checks.
	PollInterval time.Duration
}

// Waiter runs bounded readiness waits.
type Waiter struct {
	opts   Options
	logger *slog.Logger

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewWaiter creates a waiter with the given bounds.
func NewWaiter(opts Options, logger *slog.Logger) *Waiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Waiter{
		opts:   opts,
		logger: logger,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Await polls isReady until it succeeds, the timeout elapses, or ctx is
// cancelled. It returns true only on readiness; timeout and cancellation
// both return false, and neither is an error: the caller proceeds
// regardless. A successful wait never resolves before MinimumDuration has
// elapsed.
func (w *Waiter) Await(ctx context.Context, isReady Predicate) bool {
	start := w.now()

	for {
		if ctx.Err() != nil {
			w.logger.Debug("readiness wait cancelled", "elapsed", w.now().Sub(start))
			return false
		}

		if isReady(ctx) {
			if remaining := w.opts.MinimumDuration - w.now().Sub(start); remaining > 0 {
				if !w.sleep(ctx, remaining) {
					return false
				}
			}
			return true
		}

		if w.now().Sub(start)+w.opts.PollInterval >= w.opts.MaximumTimeout {
			w.logger.Warn("readiness wait timed out",
				"timeout", w.opts.MaximumTimeout,
				"poll_interval", w.opts.PollInterval,
			)
			return false
		}

		if !w.sleep(ctx, w.opts.PollInterval) {
			return false
		}
	}
}

// sleepCtx sleeps for d, returning false if ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
