// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Config controls how often and how fast an operation is re-attempted.
type Config struct {
	MaxAttempts          int           // total tries, first one included
	InitialBackoff       time.Duration // pause before the second try
	MaxBackoff           time.Duration // ceiling for the growing pause
	Multiplier           float64       // pause growth factor; 1.0 keeps it fixed
	RetryableStatusCodes []int         // statuses worth retrying; empty retries any status error
}

// DefaultConfig is the exponential-backoff profile for general use.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,     // 429
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
		},
	}
}

// FixedConfig is the page-fetch profile: attempts tries with the same
// pause between each, retrying on any transport or status error.
func FixedConfig(attempts int, delay time.Duration) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialBackoff: delay,
		MaxBackoff:     delay,
		Multiplier:     1.0,
	}
}

// WithRetry runs fn until it succeeds, exhausts cfg.MaxAttempts, or hits
// a non-retryable error. The context cancels the waits between tries.
func WithRetry(ctx context.Context, cfg Config, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	delay := cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				log.Debug().Int("attempt", attempt).Msg("Succeeded after retry")
			}
			return nil
		}

		if !retryable(cfg, lastErr) {
			log.Debug().Err(lastErr).Msg("Not retrying this error")
			return lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		log.Debug().
			Int("attempt", attempt).
			Int("max_attempts", cfg.MaxAttempts).
			Dur("delay", delay).
			Err(lastErr).
			Msg("Attempt failed, waiting before the next")

		if err := sleep(ctx, delay); err != nil {
			return err
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxBackoff {
			delay = cfg.MaxBackoff
		}
	}

	log.Warn().Int("attempts", cfg.MaxAttempts).Err(lastErr).Msg("Giving up")
	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// retryable classifies an error. Status-carrying errors follow the
// configured code list, wherever the status sits in the wrap chain.
// Timeouts and temporary transport errors retry; so does anything
// unrecognized, matching the fetcher's retry-all stance.
func retryable(cfg Config, err error) bool {
	var sc StatusCoder
	if errors.As(err, &sc) {
		if len(cfg.RetryableStatusCodes) == 0 {
			return true
		}
		code := sc.GetStatusCode()
		for _, c := range cfg.RetryableStatusCodes {
			if c == code {
				return true
			}
		}
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}
	var tempErr interface{ Temporary() bool }
	if errors.As(err, &tempErr) {
		return tempErr.Temporary()
	}

	return true
}

// sleep waits for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HTTPError is a non-2xx response, carrying the status for retry
// classification.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	GetStatusCode() int
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Status)
}

func (e HTTPError) GetStatusCode() int { return e.StatusCode }

// NewHTTPError builds an HTTPError; message is free-form context, the
// fetcher passes the URL.
func NewHTTPError(statusCode int, status, message string) HTTPError {
	return HTTPError{StatusCode: statusCode, Status: status, Message: message}
}
