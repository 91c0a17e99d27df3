package slices

import "sort"

// Map applies f to each element and collects the results, keeping order.
func Map[T any, R any](sli []T, f func(T) R) []R {
	if sli == nil {
		return nil
	}
	mapped := make([]R, len(sli))
	for nth, v := range sli {
		mapped[nth] = f(v)
	}
	return mapped
}

// Filter collects elements satisfying pred, keeping order.
func Filter[T any](sli []T, pred func(T) bool) []T {
	filtered := []T{}
	for _, v := range sli {
		if pred(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// Sorted returns a sorted copy of sli ordered by less. sli is left as-is.
func Sorted[T any](sli []T, less func(a, b T) bool) []T {
	sorted := make([]T, len(sli))
	copy(sorted, sli)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}
