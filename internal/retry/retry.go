package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Do runs op up to maxAttempts times with exponential backoff between
// attempts, starting at initial and doubling each time (no jitter).
// A failed attempt is retried only when retryable(err) returns true;
// any other error stops the loop and is returned as-is.
func Do(ctx context.Context, maxAttempts uint64, initial time.Duration, retryable func(error) bool, op func() error) error {
	return DoWithTimer(ctx, maxAttempts, initial, retryable, op, nil)
}

// DoWithTimer is Do with an injectable backoff timer, so tests can run
// the full schedule without real sleeps. A nil timer uses the default.
func DoWithTimer(ctx context.Context, maxAttempts uint64, initial time.Duration, retryable func(error) bool, op func() error, timer backoff.Timer) error {
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxElapsedTime = 0

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if retryable != nil && retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(b, maxAttempts-1), ctx)
	return backoff.RetryNotifyWithTimer(wrapped, bo, nil, timer)
}
