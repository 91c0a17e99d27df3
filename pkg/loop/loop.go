// Package loop runs a task repeatedly until the task or its context says stop.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next is a directive a Task returns: go around again after an interval,
// or break out (with or without error).
type Next struct {
	err      error
	quit     bool
	interval time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.quit {
		return "[break] without error"
	}
	return fmt.Sprintf("[continue] interval: %s", n.interval)
}

// Continue directs the loop to call the task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break directs the loop to stop. Pass nil to stop without error.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task is one turn of a loop. It receives the value the previous turn
// returned, and decides with Next whether to keep looping.
//
// The zero Next equals Continue(0): "go next, now".
type Task[T any] func(context.Context, T) (T, Next)

type loopConfig struct {
	ctx      context.Context
	deferred func()
}

type Option func(*loopConfig) *loopConfig

// WithTimeout bounds each single turn of the task.
//
// The deadline is set on the context passed to the task, per turn.
func WithTimeout(d time.Duration) Option {
	return func(lc *loopConfig) *loopConfig {
		ctx, cancel := context.WithTimeout(lc.ctx, d)
		return &loopConfig{
			ctx: ctx,
			deferred: func() {
				if lc.deferred != nil {
					defer lc.deferred()
				}
				cancel()
			},
		}
	}
}

// Start runs task in a loop, starting from init.
//
// Each turn receives the value returned by the one before.
// The loop stops when the task returns Break(err), or when ctx is done;
// either way Start returns the last value together with the error (nil
// for Break(nil), ctx.Err() on cancellation).
//
//	total, err := loop.Start(ctx, 0, func(ctx context.Context, n int) (int, loop.Next) {
//		refreshed, err := refreshExpired(ctx)
//		if err != nil {
//			return n, loop.Break(err)
//		}
//		return n + refreshed, loop.Continue(interval)
//	})
func Start[T any](ctx context.Context, init T, task Task[T], options ...Option) (T, error) {
	select {
	case <-ctx.Done():
		return init, ctx.Err()
	default:
	}

	value := init
	for {
		lc := &loopConfig{ctx: ctx}
		for _, opt := range options {
			lc = opt(lc)
		}

		v, n := func() (T, Next) {
			if lc.deferred != nil {
				defer lc.deferred()
			}
			return task(lc.ctx, value)
		}()

		if n.err != nil {
			return v, n.err
		}
		if n.quit {
			return v, nil
		}
		value = v

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			// shutdown first; the pending timer is drained, not raced.
			if !timer.Stop() {
				<-timer.C
			}
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}
