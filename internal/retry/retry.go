// Package retry runs fallible operations a bounded number of times with
// exponential backoff. Errors wrapped with Permanent stop the loop
// immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Config defines retry behavior with exponential backoff.
type Config struct {
	MaxAttempts          int
	InitialBackoff       time.Duration
	MaxBackoff           time.Duration
	Multiplier           float64
	RetryableStatusCodes []int
}

// DefaultConfig returns the retry policy used for remote fetches.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	GetStatusCode() int
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. WithRetry returns the
// wrapped error unchanged on the attempt that produced it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// WithRetry executes fn until it succeeds, exhausts cfg.MaxAttempts, or
// fails with a non-retryable error.
func WithRetry(ctx context.Context, cfg Config, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("Retry succeeded")
			}
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			log.Debug().Err(perm.err).Msg("Error is permanent, not retrying")
			return perm.err
		}

		lastErr = err

		if !shouldRetry(err, cfg) {
			log.Debug().Err(err).Msg("Error is not retryable")
			return err
		}

		if attempt < cfg.MaxAttempts-1 {
			backoff := calculateBackoff(attempt, cfg)
			log.Debug().
				Int("attempt", attempt+1).
				Int("max_attempts", cfg.MaxAttempts).
				Dur("backoff", backoff).
				Err(err).
				Msg("Retrying after backoff")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	log.Warn().Int("attempts", cfg.MaxAttempts).Err(lastErr).Msg("Max retry attempts exceeded")
	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

func calculateBackoff(attempt int, cfg Config) time.Duration {
	backoff := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}
	return time.Duration(backoff)
}

func shouldRetry(err error, cfg Config) bool {
	if err == nil {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		if code := sc.GetStatusCode(); code != 0 {
			for _, retryable := range cfg.RetryableStatusCodes {
				if code == retryable {
					return true
				}
			}
			return false
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if timeoutErr, ok := err.(interface{ Timeout() bool }); ok {
		return timeoutErr.Timeout()
	}
	if tempErr, ok := err.(interface{ Temporary() bool }); ok {
		return tempErr.Temporary()
	}

	return true
}
