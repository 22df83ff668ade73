package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable wraps every failure to reach a remote backend.
var ErrUnavailable = errors.New("cache backend unavailable")

// Backoff controls how remote backends are pinged while connecting.
type Backoff struct {
	Attempts int           // total pings, at least 1
	Initial  time.Duration // wait after the first failure
	Max      time.Duration // upper bound for a single wait
}

// DefaultBackoff pings three times, waiting 1s and then 2s.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second, Max: 8 * time.Second}

// Wait returns the delay after failed attempt n (0-based). Delays double
// from Initial and are capped at Max.
func (b Backoff) Wait(n int) time.Duration {
	d := b.Initial
	for i := 0; i < n; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	return d
}

// Connect calls ping until it succeeds or the attempts run out. Context
// cancellation stops it immediately. The returned error wraps both
// ErrUnavailable and the last ping error.
func (b Backoff) Connect(ctx context.Context, backend string, ping func(context.Context) error) error {
	attempts := max(b.Attempts, 1)
	var last error
	for i := 0; i < attempts; i++ {
		if last = ping(ctx); last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Wait(i)):
		}
	}
	return fmt.Errorf("%w: %s after %d attempt(s): %w", ErrUnavailable, backend, attempts, last)
}
