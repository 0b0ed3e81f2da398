package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection reset"), true},
		{context.DeadlineExceeded, true},
		{context.Canceled, false},
		{&StatusError{Code: 429}, true},
		{&StatusError{Code: 503}, true},
		{&StatusError{Code: 401}, false},
		{&StatusError{Code: 400}, false},
	}
	for _, c := range cases {
		if got := IsTransient(c.err); got != c.want {
			t.Errorf("IsTransient(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestWithRetryRetriesOnce(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), RetryPolicy{MaxRetries: 1, Pause: time.Millisecond}, time.Second, nil,
		func(context.Context) ([]byte, error) {
			calls++
			return nil, &StatusError{Code: 502}
		})
	if err == nil || calls != 2 {
		t.Fatalf("calls = %d err = %v, want 2 calls and an error", calls, err)
	}
}

func TestWithRetrySucceedsOnSecondAttempt(t *testing.T) {
	calls := 0
	out, err := WithRetry(context.Background(), RetryPolicy{MaxRetries: 1, Pause: time.Millisecond}, time.Second, nil,
		func(context.Context) ([]byte, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection refused")
			}
			return []byte("ok"), nil
		})
	if err != nil || string(out) != "ok" {
		t.Fatalf("out = %q err = %v", out, err)
	}
}

func TestWithRetrySkipsPermanentErrors(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), RetryPolicy{MaxRetries: 1, Pause: time.Millisecond}, time.Second, nil,
		func(context.Context) ([]byte, error) {
			calls++
			return nil, &StatusError{Code: 401}
		})
	if err == nil || calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestWithRetryStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := WithRetry(ctx, RetryPolicy{MaxRetries: 1, Pause: time.Hour}, time.Second, nil,
		func(context.Context) ([]byte, error) {
			calls++
			cancel()
			return nil, errors.New("network down")
		})
	if err == nil || calls != 1 {
		t.Fatalf("calls = %d err = %v", calls, err)
	}
}
