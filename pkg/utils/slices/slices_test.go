package slices_test

import (
	"strconv"
	"testing"

	"github.com/v6census/v6census/pkg/utils/cmp"
	"github.com/v6census/v6census/pkg/utils/slices"
)

func TestMap(t *testing.T) {
	t.Run("it converts each element in order", func(t *testing.T) {
		got := slices.Map([]int{1, 2, 3}, strconv.Itoa)
		if !cmp.SliceEq(got, []string{"1", "2", "3"}) {
			t.Errorf("unmatch: got %v", got)
		}
	})
	t.Run("it passes nil through", func(t *testing.T) {
		if got := slices.Map(nil, strconv.Itoa); got != nil {
			t.Errorf("mapping nil should be nil: got %v", got)
		}
	})
}

func TestFilter(t *testing.T) {
	t.Run("it keeps elements satisfying the predicate", func(t *testing.T) {
		got := slices.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
		if !cmp.SliceEq(got, []int{2, 4}) {
			t.Errorf("unmatch: got %v", got)
		}
	})
}

func TestSorted(t *testing.T) {
	t.Run("it returns an ordered copy and keeps the input as-is", func(t *testing.T) {
		in := []string{"c", "a", "b"}
		got := slices.Sorted(in, func(a, b string) bool { return a < b })
		if !cmp.SliceEq(got, []string{"a", "b", "c"}) {
			t.Errorf("unmatch: got %v", got)
		}
		if !cmp.SliceEq(in, []string{"c", "a", "b"}) {
			t.Errorf("input should not be mutated: got %v", in)
		}
	})
}
