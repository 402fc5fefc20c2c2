package ai

import (
	"context"
	"time"
)

// withRetry runs fn up to retries+1 times, each attempt under its own
// deadline. The last error is returned once attempts are exhausted;
// context cancellation stops the loop immediately.
func withRetry(ctx context.Context, retries int, timeout time.Duration, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err = fn(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
