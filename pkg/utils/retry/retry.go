package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry tells Blocking to call the function again.
var ErrRetry = errors.New("retry")

// Backoff is a (blocking) function returns when to retry.
//
// If context is canceled, Backoff should return ctx.Err().
type Backoff func(context.Context) error

// StaticBackoff returns a Backoff function that waits for a fixed interval.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1, interval)
}

// ExponentialBackoff returns a Backoff function that waits with exponential backoff.
//
// For N-th call, it waits for min(initialInterval * r^N, ceil) or context to be done.
func ExponentialBackoff(initialInterval time.Duration, r float64, ceil time.Duration) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(float64(interval) * r)
			if ceil < interval {
				interval = ceil
			}
			return nil
		}
	}
}

// Blocking calls f until it returns nil or non-retry error.
//
// f is called once without waiting. After that, b is waited before each call.
//
// If ctx is done while waiting, Blocking returns the last value of f
// and an error joining ctx.Err() and the last error from f.
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	last, err := f()
	for {
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, ErrRetry) {
			return last, err
		}
		if berr := b(ctx); berr != nil {
			return last, errors.Join(berr, err)
		}
		last, err = f()
	}
}
