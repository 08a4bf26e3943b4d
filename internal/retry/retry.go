// Package retry provides a bounded generate-and-check loop.
package retry

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned when no acceptable value was produced within the attempt budget.
var ErrExhausted = errors.New("retry attempts exhausted")

// Until calls next up to maxAttempts times and returns the first value that acceptable
// approves. An error from next or acceptable stops the loop and is returned as is.
// When every candidate is rejected it returns ErrExhausted wrapped with the attempt count.
func Until[T any](maxAttempts int, next func() (T, error), acceptable func(T) (bool, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		return zero, fmt.Errorf("%w: max attempts must be positive, got %d", ErrExhausted, maxAttempts)
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := next()
		if err != nil {
			return zero, err
		}
		ok, err := acceptable(v)
		if err != nil {
			return zero, err
		}
		if ok {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w after %d attempts", ErrExhausted, maxAttempts)
}
