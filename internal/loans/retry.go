package loans

import (
	"context"
	"time"
)

// retryWithBackoff runs fn up to attempts times, sleeping baseDelay, 2*baseDelay, ...
// between tries. It returns the last error when every attempt failed.
func retryWithBackoff(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return lastErr
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
	}

	return lastErr
}
