package remote

import (
	"context"
	"time"
)

const (
	retryAttempts = 3
	retryBaseWait = 200 * time.Millisecond
)

// WithRetry runs fn up to three times with exponential backoff, returning
// the last error when every attempt fails. The backing store has no retry of
// its own, so transient write failures are absorbed here.
func WithRetry(ctx context.Context, fn func(context.Context) error) error {
	var err error
	wait := retryBaseWait

	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			wait *= 2
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}

	return err
}
