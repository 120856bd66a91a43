// Package ratelimit provides a sliding-window admission gate for outbound
// requests.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/fantasywire/fantasy-go/internal/constants"
)

// Limiter admits at most max requests per trailing window. It is safe for
// concurrent use; the admission list is serialized behind a mutex and Wait
// never holds the lock while sleeping.
type Limiter struct {
	mu         sync.Mutex
	max        int
	window     time.Duration
	admissions []time.Time

	now func() time.Time
}

// New creates a limiter. Non-positive arguments fall back to the defaults
// (20 requests per second).
func New(max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = constants.DefaultRateLimit
	}

	if window <= 0 {
		window = constants.DefaultRateWindow
	}

	return &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Wait suspends until admission is safe, then records the admission. Entries
// older than the window are purged lazily on each call. The returned error is
// non-nil only when ctx is done before admission.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		delay, admitted := l.tryAdmit()
		if admitted {
			return nil
		}

		timer := time.NewTimer(delay)

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		}
	}
}

// tryAdmit records an admission if the window has room, otherwise returns
// how long the caller must wait for the oldest surviving entry to expire.
func (l *Limiter) tryAdmit() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purge(now)

	if len(l.admissions) < l.max {
		l.admissions = append(l.admissions, now)

		return 0, true
	}

	delay := l.window - now.Sub(l.admissions[0])
	if delay < 0 {
		delay = 0
	}

	return delay, false
}

func (l *Limiter) purge(now time.Time) {
	cutoff := now.Add(-l.window)

	kept := l.admissions[:0]

	for _, admitted := range l.admissions {
		if admitted.After(cutoff) {
			kept = append(kept, admitted)
		}
	}

	l.admissions = kept
}
