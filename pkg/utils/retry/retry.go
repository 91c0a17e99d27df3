// Package retry blocks on an operation until it succeeds, gives up, or the
// context ends. It is for boot-time waits (a database not accepting
// connections yet); refreshing statistics sources does not retry.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry tells Blocking to call the operation again after a backoff.
var ErrRetry = errors.New("retry")

// Backoff waits until the next attempt may start.
// It returns ctx.Err() when the context ends while waiting.
type Backoff func(context.Context) error

// StaticBackoff waits a fixed interval between attempts.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff waits initialInterval before the first attempt and
// multiplies the wait by r after each one.
func ExponentialBackoff(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(int64(float64(interval) * r))
			return nil
		}
	}
}

// Blocking calls f until it returns nil error or a non-ErrRetry error,
// waiting with b between attempts (including before the first).
//
// It returns the last value f produced, and the error that stopped it
// (nil on success, ctx.Err() when the wait was interrupted).
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	last := *new(T)
	for {
		if err := b(ctx); err != nil {
			return last, err
		}

		var err error
		last, err = f()
		if err == nil {
			return last, nil
		}
		if errors.Is(err, ErrRetry) {
			continue
		}
		return last, err
	}
}
