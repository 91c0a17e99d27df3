package mocks

// CallLog records the arguments of each call to a mocked method.
type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

// Last returns the arguments of the most recent call.
// It panics when nothing was called.
func (l CallLog[T]) Last() T {
	return l[len(l)-1]
}
