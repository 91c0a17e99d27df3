package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/v6census/v6census/pkg/loop"
)

func TestStart(t *testing.T) {
	t.Run("it repeats the task until Break", func(t *testing.T) {
		total, err := loop.Start(
			context.Background(), 0,
			func(_ context.Context, n int) (int, loop.Next) {
				n += 1
				if 5 <= n {
					return n, loop.Break(nil)
				}
				return n, loop.Continue(0)
			},
		)
		if err != nil {
			t.Fatal("unexpected error: ", err)
		}
		if total != 5 {
			t.Errorf("task should run 5 times: got %d", total)
		}
	})

	t.Run("it returns the error passed to Break together with the last value", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		got, err := loop.Start(
			context.Background(), "start",
			func(_ context.Context, v string) (string, loop.Next) {
				return "stopped", loop.Break(expectedErr)
			},
		)
		if !errors.Is(err, expectedErr) {
			t.Error("expected error is not returned: ", err)
		}
		if got != "stopped" {
			t.Errorf("last value should be returned: got %s", got)
		}
	})

	t.Run("it breaks with ctx.Err when the context is done while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		turns := 0
		_, err := loop.Start(
			ctx, 0,
			func(_ context.Context, n int) (int, loop.Next) {
				turns += 1
				cancel()
				return n + 1, loop.Continue(time.Hour)
			},
		)
		if !errors.Is(err, context.Canceled) {
			t.Error("expected error (Canceled) is not returned: ", err)
		}
		if turns != 1 {
			t.Errorf("task should not run again after cancel: ran %d times", turns)
		}
	})

	t.Run("it does not start when the context is already done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		turns := 0
		_, err := loop.Start(
			ctx, 0,
			func(_ context.Context, n int) (int, loop.Next) {
				turns += 1
				return n, loop.Break(nil)
			},
		)
		if !errors.Is(err, context.Canceled) {
			t.Error("expected error (Canceled) is not returned: ", err)
		}
		if turns != 0 {
			t.Errorf("task should not run at all: ran %d times", turns)
		}
	})

	t.Run("it passes a deadlined context when WithTimeout is given", func(t *testing.T) {
		timeout := 100 * time.Millisecond

		_, err := loop.Start(
			context.Background(), struct{}{},
			func(ctx context.Context, v struct{}) (struct{}, loop.Next) {
				deadline, ok := ctx.Deadline()
				if !ok {
					return v, loop.Break(errors.New("context should have deadline"))
				}
				if remaining := time.Until(deadline); timeout < remaining {
					return v, loop.Break(errors.New("deadline is too far"))
				}
				return v, loop.Break(nil)
			},
			loop.WithTimeout(timeout),
		)
		if err != nil {
			t.Error("unexpected error: ", err)
		}
	})
}
