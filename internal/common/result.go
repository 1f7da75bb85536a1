// Package common provides the Result sum type used pervasively across
// the module for fallible operations that must not rely on panics.
package common

// Result represents either a successful value or an error, mirroring
// Ok/Err discriminated unions. Zero value is an Err holding a nil error.
type Result[T any] struct {
	value T
	err   error
	isOk  bool
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, isOk: true}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err, isOk: false}
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.isOk }

// IsErr reports whether the result holds an error.
func (r Result[T]) IsErr() bool { return !r.isOk }

// Unwrap returns the value, panicking if the result is an Err. Use only
// where the caller has already established the Ok case (e.g. after
// IsOk()), or in tests.
func (r Result[T]) Unwrap() T {
	if !r.isOk {
		panic(r.err)
	}
	return r.value
}

// UnwrapOr returns the value, or def when the result is an Err.
func (r Result[T]) UnwrapOr(def T) T {
	if r.isOk {
		return r.value
	}
	return def
}

// UnwrapErr returns the held error, or nil when the result is Ok.
func (r Result[T]) UnwrapErr() error {
	return r.err
}

// Get returns the value and error, matching Go's native (T, error) idiom
// for call sites that need to bridge out of Result.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// MapResult transforms an Ok value, leaving an Err untouched. Free
// function since Go methods cannot introduce new type parameters.
func MapResult[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.isOk {
		return Ok(f(r.value))
	}
	return Err[U](r.err)
}

// MapErr transforms the error of an Err result, leaving an Ok untouched.
func MapErr[T any](r Result[T], f func(error) error) Result[T] {
	if r.isOk {
		return r
	}
	return Err[T](f(r.err))
}

// AndThen flat-maps an Ok value into another Result, short-circuiting on
// Err.
func AndThen[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.isOk {
		return f(r.value)
	}
	return Err[U](r.err)
}

// OrElse recovers from an Err by mapping it into another Result of the
// same value type, leaving Ok untouched.
func OrElse[T any](r Result[T], f func(error) Result[T]) Result[T] {
	if r.isOk {
		return r
	}
	return f(r.err)
}

// Collect turns a slice of Results into a Result of a slice, short
// circuiting on the first Err encountered.
func Collect[T any](results []Result[T]) Result[[]T] {
	values := make([]T, 0, len(results))
	for _, r := range results {
		if r.IsErr() {
			return Err[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Ok(values)
}

// Try runs f, converting a panic into an Err rather than propagating it.
// Every panic whose value is an error is converted; there is no filter
// by error kind. A panic with a non-error value re-panics.
func Try[T any](f func() T) (result Result[T]) {
	defer func() {
		if rec := recover(); rec != nil {
			if err, ok := rec.(error); ok {
				result = Err[T](err)
				return
			}
			panic(rec)
		}
	}()
	return Ok(f())
}
