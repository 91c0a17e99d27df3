package try_test

import (
	"errors"
	"testing"

	"github.com/v6census/v6census/pkg/utils/try"
)

type fakeFataler struct {
	called bool
	args   []any
}

func (f *fakeFataler) Fatal(args ...any) {
	f.called = true
	f.args = args
}

func TestEither(t *testing.T) {
	t.Run("when it wraps a value, OrFatal returns the value silently", func(t *testing.T) {
		f := &fakeFataler{}
		got := try.To(42, nil).OrFatal(f)
		if got != 42 {
			t.Errorf("unmatch: got %d, expected 42", got)
		}
		if f.called {
			t.Error("Fatal should not be called")
		}
	})

	t.Run("when it wraps an error, OrFatal calls Fatal with the error", func(t *testing.T) {
		f := &fakeFataler{}
		expectedErr := errors.New("fake error")
		try.To(0, expectedErr).OrFatal(f)
		if !f.called {
			t.Fatal("Fatal should be called")
		}
		if len(f.args) != 1 || f.args[0] != expectedErr {
			t.Errorf("Fatal should receive the wrapped error: got %+v", f.args)
		}
	})

	t.Run("when it wraps an error, OrDefault returns the default", func(t *testing.T) {
		got := try.To("", errors.New("fake error")).OrDefault("fallback")
		if got != "fallback" {
			t.Errorf("unmatch: got %s, expected fallback", got)
		}
	})

	t.Run("Get returns the pair as passed to To", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		v, err := try.To("value", expectedErr).Get()
		if v != "value" || err != expectedErr {
			t.Errorf("unmatch: got (%v, %v)", v, err)
		}
	})
}
