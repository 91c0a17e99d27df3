package cmp

// SliceEq checks two slices hold equal elements in the same order.
func SliceEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for nth, va := range a {
		if va != b[nth] {
			return false
		}
	}
	return true
}

// SliceEqWith checks two slices are element-wise equal by pred, in order.
func SliceEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// SliceContentEq checks two slices hold the same elements, ignoring order.
//
// Elements are matched up one-to-one, so duplicates count.
func SliceContentEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	rest := make(map[T]int, len(a))
	for _, va := range a {
		rest[va] += 1
	}
	for _, vb := range b {
		n, ok := rest[vb]
		if !ok || n == 0 {
			return false
		}
		rest[vb] = n - 1
	}
	return true
}
