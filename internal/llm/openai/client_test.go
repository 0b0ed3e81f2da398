package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
)

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIKey:  "sk-test",
		BaseURL: url,
		Timeout: 2 * time.Second,
		Retry:   llm.RetryPolicy{MaxRetries: 1, Pause: 5 * time.Millisecond},
	}, nil)
}

func TestExtractFieldsSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(chatReply("```json\n{\"Guest Name\":\"J. Smith\",\"Hotel\":\"Grand Hotel\"}\n```")))
	}))
	defer srv.Close()

	fields, raw, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "voucher text"})
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}
	if gotAuth != "Bearer sk-test" || gotPath != "/chat/completions" {
		t.Fatalf("auth=%q path=%q", gotAuth, gotPath)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Fatalf("model = %v", gotBody["model"])
	}
	if len(fields) != 2 || fields[0].Key != "Guest Name" || *fields[1].Value != "Grand Hotel" {
		t.Fatalf("fields = %+v", fields)
	}
	if !strings.Contains(string(raw), "J. Smith") {
		t.Fatalf("raw = %s", raw)
	}
}

func TestExtractFieldsRetriesTransientOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(chatReply(`{"hotel_name":"Grand Hotel"}`)))
	}))
	defer srv.Close()

	fields, _, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "x"})
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 || len(fields) != 1 {
		t.Fatalf("calls = %d fields = %+v", calls, fields)
	}
}

func TestExtractFieldsUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{"server error retried once", http.StatusInternalServerError, 2},
		{"rate limited retried once", http.StatusTooManyRequests, 2},
		{"auth failure not retried", http.StatusUnauthorized, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			fields, _, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "x"})
			if !errors.Is(err, common.ErrOracleUnavailable) {
				t.Fatalf("err = %v, want ErrOracleUnavailable", err)
			}
			if fields != nil {
				t.Fatalf("expected no fields, got %+v", fields)
			}
			if got := atomic.LoadInt32(&calls); got != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestExtractFieldsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
		Retry:   llm.RetryPolicy{MaxRetries: 1, Pause: 5 * time.Millisecond},
	}, nil)

	start := time.Now()
	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{Text: "x"})
	if !errors.Is(err, common.ErrOracleUnavailable) {
		t.Fatalf("err = %v, want ErrOracleUnavailable", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("call not bounded by timeout: %v", elapsed)
	}
}

func TestExtractFieldsMalformed(t *testing.T) {
	tests := map[string]string{
		"prose content":  chatReply("I could not find a voucher in this text."),
		"nested content": chatReply(`{"rooms":[{"room_category":"Deluxe"}]}`),
		"no choices":     `{"choices":[]}`,
		"not json":       `<html>gateway</html>`,
	}
	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(reply))
			}))
			defer srv.Close()

			fields, _, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "x"})
			if !errors.Is(err, common.ErrOracleMalformed) {
				t.Fatalf("err = %v, want ErrOracleMalformed", err)
			}
			if fields != nil {
				t.Fatalf("malformed reply must not yield fields: %+v", fields)
			}
			if atomic.LoadInt32(&calls) != 1 {
				t.Fatalf("malformed replies are not retried, calls = %d", calls)
			}
		})
	}
}

func TestExtractFieldsMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{Text: "x"})
	if !errors.Is(err, common.ErrOracleUnavailable) {
		t.Fatalf("err = %v, want ErrOracleUnavailable", err)
	}
	if calls != 0 {
		t.Fatalf("request sent without a key")
	}
}
