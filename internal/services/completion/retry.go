package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
)

// Default retry settings for the completion call
const (
	DefaultMaxAttempts = 3
	DefaultBaseWait    = 2 * time.Second
)

// ErrInvalidMaxAttempts is returned when a policy would not allow any retry
var ErrInvalidMaxAttempts = errors.New("max attempts must allow multiple attempts (>= 2)")

// ErrInvalidBaseWait is returned for a zero or negative backoff base
var ErrInvalidBaseWait = errors.New("base wait must be positive")

// RetryPolicy retries an operation on errors accepted by Retryable, waiting
// Backoff(attempt) between attempts. Attempts are numbered from 1.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Retryable   func(err error) bool
	Sleep       func(ctx context.Context, d time.Duration) error

	logger arbor.ILogger
}

// NewRetryPolicy creates a policy retrying transient completion errors with
// exponential backoff. maxAttempts below 2 and a non-positive baseWait are
// configuration errors.
func NewRetryPolicy(maxAttempts int, baseWait time.Duration, logger arbor.ILogger) (*RetryPolicy, error) {
	if maxAttempts < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxAttempts, maxAttempts)
	}
	if baseWait <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidBaseWait, baseWait)
	}
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     ExponentialBackoff(baseWait),
		Retryable:   IsTransient,
		Sleep:       sleepContext,
		logger:      logger,
	}, nil
}

// ExponentialBackoff returns base * 2^(attempt-1)
func ExponentialBackoff(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base * time.Duration(1<<uint(attempt-1))
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. It returns the number of attempts made and the
// last error, wrapped.
func (p *RetryPolicy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) (int, error) {
	if p.MaxAttempts < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMaxAttempts, p.MaxAttempts)
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}
		if !p.Retryable(err) {
			return attempt, err
		}

		lastErr = err
		if attempt == p.MaxAttempts {
			break
		}

		wait := p.Backoff(attempt)
		p.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt).
			Int("max_attempts", p.MaxAttempts).
			Str("error_type", ErrorKind(err)).
			Dur("wait", wait).
			Msgf("%s failed (%s: %v). Retrying in %.1fs...", operation, ErrorKind(err), err, wait.Seconds())

		if err := p.Sleep(ctx, wait); err != nil {
			return attempt, fmt.Errorf("%s cancelled during backoff: %w", operation, err)
		}
	}

	return p.MaxAttempts, fmt.Errorf("%s failed after %d attempts: %w", operation, p.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
