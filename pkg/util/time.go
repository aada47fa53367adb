// Package util provides utility functions for the application
package util

import (
	"context"
	"time"
)

// Backoff describes a retry cadence: a window of fast retries at a fixed
// interval, then exponential back-off up to a cap.
type Backoff struct {
	FastRetries  int
	FastInterval time.Duration
	Initial      time.Duration
	Max          time.Duration
}

// Delay returns how long to wait before retry number attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= b.FastRetries || b.Initial <= 0 {
		return b.FastInterval
	}
	delay := b.Initial
	for i := b.FastRetries + 1; i < attempt; i++ {
		delay *= 2
		if b.Max > 0 && delay >= b.Max {
			return b.Max
		}
	}
	return delay
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
