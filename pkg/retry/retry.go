package retry

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultMaxAttempts mirrors the web client's retry budget (one
	// initial try plus two retries would be 3 attempts total).
	DefaultMaxAttempts = 3
	// DefaultDelay is the fixed wait between attempts. No backoff, no jitter.
	DefaultDelay = time.Second
)

// Classifier is implemented by errors that know whether another
// attempt could succeed. Server errors and network failures are
// retryable; client errors (4xx) are not.
type Classifier interface {
	Retryable() bool
}

// permanentError marks an error as not worth retrying.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string   { return e.err.Error() }
func (e *permanentError) Unwrap() error   { return e.err }
func (e *permanentError) Retryable() bool { return false }

// Permanent wraps err so Do fails fast instead of burning attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetryable reports whether err should be retried. Errors that do not
// classify themselves are assumed transient, which covers plain network
// failures from the transport.
func IsRetryable(err error) bool {
	var c Classifier
	if errors.As(err, &c) {
		return c.Retryable()
	}
	return true
}

// Policy is a fixed-delay bounded retry policy.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration

	// sleep is swappable for tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPolicy returns a policy with defaults filled in.
func NewPolicy(maxAttempts int, delay time.Duration) Policy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return Policy{MaxAttempts: maxAttempts, Delay: delay}
}

// Do runs op until it succeeds, the attempt budget is exhausted, or a
// non-retryable error occurs. The last attempt's error is returned
// unchanged.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		if serr := sleep(ctx, p.Delay); serr != nil {
			return serr
		}
	}

	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
