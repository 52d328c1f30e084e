// Package retrylimit provides adaptive rate limiting and retry for
// outbound API calls. Errors that expose an HTTP status code get special
// handling: 429 slows the limiter down, 5xx is retried with backoff, and
// everything wrapped in FatalError stops immediately.
//
// Example usage:
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
//	err := retrylimit.WithRetryMax(ctx, func() error {
//	    return doSomeWork()
//	}, lim, 3)
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter manages a rate limit that adjusts automatically based
// on the outcome of requests. It increases on success and decreases on
// rate-limit responses.
type AdaptiveLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter creates an AdaptiveLimiter.
//
// Parameters:
//   - initial: starting requests per second
//   - minLimit: minimum allowed rate
//   - maxLimit: maximum allowed rate
//   - stepUp: increment on success
//   - stepDown: multiplier applied on failure (e.g., 0.5 to halve)
func NewAdaptiveLimiter(initial, minLimit, maxLimit rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial < 1 {
		initial = 1
	}
	if minLimit < 1 {
		minLimit = 1
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, max(1, int(initial))),
		minLimit: minLimit,
		maxLimit: maxLimit,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or the context is canceled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success increases the rate, unless a rate limit was hit recently.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.adjustLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited reduces the rate after a 429 or a server error.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjustLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) adjustLimit(newLimit rate.Limit) {
	if newLimit > a.maxLimit {
		newLimit = a.maxLimit
	} else if newLimit < a.minLimit {
		newLimit = a.minLimit
	}
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(max(1, int(newLimit)))
	}
}

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// FatalError wraps errors that should stop retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Fatal marks err as not worth retrying. Nil stays nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts    int           // Maximum number of attempts (0 = capped at 100)
	InitialDelay   time.Duration // Initial delay between retries
	MaxDelay       time.Duration // Maximum delay between retries
	RateLimitDelay time.Duration // Fixed delay for rate limit errors
	Multiplier     float64       // Delay multiplier for exponential backoff
	Jitter         bool          // Add random jitter to prevent thundering herd
}

// DefaultRetryConfig returns the configuration used by WithRetry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    100,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: 100 * time.Millisecond,
		Multiplier:     2.0,
		Jitter:         true,
	}
}

// WithRetry executes fn with the default configuration.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultRetryConfig())
}

// WithRetryMax executes fn with exponential backoff up to maxAttempts times.
func WithRetryMax(ctx context.Context, fn func() error, lim *AdaptiveLimiter, maxAttempts int) error {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = maxAttempts
	return WithRetryConfig(ctx, fn, lim, cfg)
}

// WithRetryConfig executes fn until it succeeds, returns a FatalError,
// the context ends, or the attempts run out. The last error is returned
// wrapped when attempts run out.
func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 100
	}
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				log.Debug().Int("attempt", attempt).Msg("[Retry] success after retry")
			}
			return nil
		}
		lastErr = err

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		switch {
		case isRateLimitError(err):
			if lim != nil {
				lim.RateLimited()
			}
			wait = cfg.RateLimitDelay
			log.Warn().Int("attempt", attempt).Msg("[Retry] rate limited")
		case isServerError(err):
			if lim != nil {
				lim.RateLimited()
			}
			log.Warn().Err(err).Int("attempt", attempt).Dur("sleep", wait).Msg("[Retry] server error")
		default:
			log.Warn().Err(err).Int("attempt", attempt).Dur("sleep", wait).Msg("[Retry] request failed")
		}

		if cfg.Jitter {
			wait = addJitter(wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// addJitter adds random jitter (0-25% of delay).
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}

func isRateLimitError(err error) bool {
	var httpErr HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode() == http.StatusTooManyRequests
}

func isServerError(err error) bool {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	code := httpErr.StatusCode()
	return code >= 500 && code < 600
}
