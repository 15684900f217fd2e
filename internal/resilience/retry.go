package resilience

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// Sleeper abstracts time-based waiting for testing.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper uses actual time.
type RealSleeper struct{}

// Sleep waits for d or until ctx is done.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int           // Retries after the first attempt (0 = no retries)
	BaseWait    time.Duration // Initial wait duration
	MaxWait     time.Duration // Maximum wait duration
	Multiplier  float64       // Backoff multiplier (e.g., 2.0 for exponential)
	Jitter      float64       // Jitter factor (0.0-1.0)
	Retryable   func(err error) bool
	Sleeper     Sleeper
	OnRetry     func(attempt int, err error, wait time.Duration)
}

// DefaultRetryConfig returns sensible defaults. Retries are off.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 0,
		BaseWait:    time.Second,
		MaxWait:     30 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
	}
}

// Retry executes fn, retrying according to cfg. The last error is returned
// unwrapped; callers decide how to report exhaustion.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	sleeper := cfg.Sleeper
	if sleeper == nil {
		sleeper = RealSleeper{}
	}

	for attempt := 0; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return zero, err
		}
		if attempt >= cfg.MaxAttempts {
			break
		}

		wait := Backoff(cfg, attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, wait)
		}
		if err := sleeper.Sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

// Backoff returns the wait before retry number attempt+1.
func Backoff(cfg RetryConfig, attempt int) time.Duration {
	wait := float64(cfg.BaseWait)
	for range attempt {
		wait *= cfg.Multiplier
	}
	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// Apply jitter using crypto/rand
	if cfg.Jitter > 0 {
		jitterRange := int64(wait * cfg.Jitter)
		if jitterRange > 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(jitterRange*2))
			if err == nil {
				wait += float64(n.Int64() - jitterRange)
			}
		}
	}

	return time.Duration(wait)
}
