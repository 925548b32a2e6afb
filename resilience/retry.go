package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryConfig controls RetryWithConfig.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	Multiplier      float64
	RandomizeFactor float64          // jitter factor in [0,1]
	RetryIf         func(error) bool // nil retries every error
}

// DefaultRetryConfig suits short upstream calls: three attempts starting
// at 100ms with exponential backoff.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		Multiplier:      2.0,
		RandomizeFactor: 0.1,
		RetryIf:         IsRetryable,
	}
}

// RetryWithConfig runs fn until it succeeds, the config's attempts are
// exhausted, RetryIf rejects the error, or ctx is done.
func RetryWithConfig(ctx context.Context, config *RetryConfig, fn func() error) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if config.RetryIf != nil && !config.RetryIf(err) {
			return err
		}

		if attempt < config.MaxAttempts-1 {
			select {
			case <-time.After(applyJitter(delay, config.RandomizeFactor)):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}
	}

	return ErrMaxRetriesExceeded{Attempts: config.MaxAttempts, LastErr: lastErr}
}

// Retry runs fn with the default config.
func Retry(ctx context.Context, fn func() error) error {
	return RetryWithConfig(ctx, DefaultRetryConfig(), fn)
}

// RetryWithBackoff runs fn up to attempts times with exponential backoff
// starting at delay.
func RetryWithBackoff(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return RetryWithConfig(ctx, &RetryConfig{
		MaxAttempts:     attempts,
		InitialDelay:    delay,
		MaxDelay:        30 * time.Second,
		Multiplier:      2.0,
		RandomizeFactor: 0.1,
		RetryIf:         IsRetryable,
	}, fn)
}

func applyJitter(delay time.Duration, factor float64) time.Duration {
	if factor <= 0 {
		return delay
	}
	jitter := float64(delay) * factor
	min := float64(delay) - jitter
	max := float64(delay) + jitter
	return time.Duration(min + rand.Float64()*(max-min))
}

// IsRetryable rejects context cancellation and deadline errors; everything
// else is considered transient.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// ErrMaxRetriesExceeded wraps the last error after exhausting attempts.
type ErrMaxRetriesExceeded struct {
	Attempts int
	LastErr  error
}

func (e ErrMaxRetriesExceeded) Error() string {
	if e.LastErr != nil {
		return "max retries exceeded: " + e.LastErr.Error()
	}
	return "max retries exceeded"
}

func (e ErrMaxRetriesExceeded) Unwrap() error {
	return e.LastErr
}
