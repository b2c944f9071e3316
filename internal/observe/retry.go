package observe

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry runs op with bounded retries and exponential backoff: the n-th retry
// waits 2^n units. Non-transient failures should be wrapped with Permanent,
// which stops retrying immediately.
func Retry(ctx context.Context, maxRetries int, unit time.Duration, op func() error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if unit <= 0 {
		unit = time.Second
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * unit
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = bo.InitialInterval << uint(maxRetries)
	bo.MaxElapsedTime = 0

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries)), ctx))
}

// Permanent marks an error as non-transient so Retry gives up immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// WithSession acquires a session, runs fn, and guarantees release on every
// exit path, including panics. Retry policy is fn's concern; the session is
// acquired exactly once so per-record retries reuse it.
func WithSession(ctx context.Context, dialer Dialer, fn func(context.Context, Session) error) error {
	session, err := dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	return fn(ctx, session)
}
