package try

// something having method `Fatal`, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either carries a (value, error) pair as a single hand-off.
//
// When error is nil the Either is "ok" and the value is valid.
// Otherwise the value should not be used.
type Either[T any] struct {
	value T
	err   error
}

// To wraps the common Go return pair into an Either.
//
//	conf := try.To(LoadConfig(path)).OrFatal(t)
func To[T any](value T, err error) Either[T] {
	return Either[T]{value: value, err: err}
}

// Get returns the wrapped pair as-is.
func (e Either[T]) Get() (T, error) {
	return e.value, e.err
}

// OrFatal returns the value, or calls f.Fatal(err) when the Either is not ok.
//
// If f has a Helper() method (think *testing.T), it is called first so that
// failures point at the caller.
func (e Either[T]) OrFatal(f Fataler) T {
	if e.err != nil {
		if h, ok := f.(interface{ Helper() }); ok {
			h.Helper()
		}
		f.Fatal(e.err)
	}
	return e.value
}

// OrDefault returns the value, or d when the Either is not ok.
func (e Either[T]) OrDefault(d T) T {
	if e.err != nil {
		return d
	}
	return e.value
}
