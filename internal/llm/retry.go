package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// RetryPolicy bounds oracle retries: at most MaxRetries extra attempts, each after a
// fixed Pause.
type RetryPolicy struct {
	MaxRetries int
	Pause      time.Duration
}

// DefaultRetryPolicy retries once after one second.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 1, Pause: time.Second}

// IsTransient reports whether err is worth another attempt: network failures,
// timeouts, 429 and 5xx replies.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, context.Canceled)
}

// WithRetry runs call with a per-attempt timeout and retries transient failures while
// ctx is still alive. The last error is returned unwrapped.
func WithRetry(ctx context.Context, policy RetryPolicy, timeout time.Duration, logger *slog.Logger, call func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if ctx.Err() != nil || !IsTransient(lastErr) {
				break
			}
			logger.Warn("llm.retry", "attempt", attempt+1, "error", lastErr, "pause_ms", policy.Pause.Milliseconds())
			t := time.NewTimer(policy.Pause)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, lastErr
			case <-t.C:
			}
		}

		actx, cancel := context.WithTimeout(ctx, timeout)
		out, err := call(actx)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
