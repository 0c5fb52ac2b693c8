package workerpool

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

const (
	defaultAttempts     = 3
	defaultInitialRetry = 20 * time.Millisecond
	defaultMaxRetry     = 500 * time.Millisecond
)

// RetryPolicy describes how many times and how often a function should be
// retried. Zero values are treated as "use defaults".
type RetryPolicy struct {
	// Attempts is the maximum number of tries.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// DefaultRetryPolicy returns the policy used for zero fields.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: defaultAttempts,
		Initial:  defaultInitialRetry,
		Max:      defaultMaxRetry,
	}
}

func (rp RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if rp.Attempts <= 0 {
		rp.Attempts = def.Attempts
	}
	if rp.Initial <= 0 {
		rp.Initial = def.Initial
	}
	if rp.Max <= 0 {
		rp.Max = def.Max
	}
	if rp.Max < rp.Initial {
		rp.Max = rp.Initial
	}
	return rp
}

// Retry wraps fn so that it is called up to rp.Attempts times, sleeping a
// jittered exponential backoff between failures. The wrapped function
// returns nil on the first success, otherwise the last error.
//
// The sleeps happen on whichever goroutine runs the wrapper; inside a pool
// that is a worker, so keep policies short.
func Retry(fn func() error, rp RetryPolicy) func() error {
	return RetryContext(context.Background(), fn, rp)
}

// RetryContext is Retry with a context that carries the logger and can cut
// the backoff short.
func RetryContext(ctx context.Context, fn func() error, rp RetryPolicy) func() error {
	pol := rp.withDefaults()
	return func() error {
		logger := lg.FromContext(ctx)
		bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

		var err error
		for attempt := 1; attempt <= pol.Attempts; attempt++ {
			if err = fn(); err == nil {
				return nil
			}
			if attempt == pol.Attempts {
				break
			}

			delay := bo.Next()
			logger.Warn("attempt failed; backing off",
				lg.Int("attempt", attempt),
				lg.String("sleep", delay.String()),
				lg.Any("error", err),
			)
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
		return err
	}
}
