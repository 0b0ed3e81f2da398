package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{"unreadable", UnreadablePDF("bad header", nil), ErrUnreadablePDF, CodeUnreadablePDF},
		{"unavailable", OracleUnavailable("timeout", cause), ErrOracleUnavailable, CodeOracleUnavailable},
		{"malformed", OracleMalformed("not json", cause), ErrOracleMalformed, CodeOracleMalformed},
		{"branding", BrandingConfigError("no logo", nil), ErrBrandingConfig, CodeBrandingConfig},
		{"render", RenderFailed("exit 1", cause), ErrRender, CodeRender},
		{"incomplete", IncompleteRecord("2 blocking issues"), ErrIncompleteRecord, CodeIncompleteRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("stage: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Fatalf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if got := ErrorCode(wrapped); got != tt.code {
				t.Fatalf("ErrorCode() = %q, want %q", got, tt.code)
			}
			if Remediation(wrapped) == Remediation(errors.New("other")) {
				t.Fatalf("expected specific remediation for %s", tt.name)
			}
		})
	}
}

func TestCauseIsPreserved(t *testing.T) {
	cause := errors.New("connection refused")
	err := OracleUnavailable("post", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestRemediationNil(t *testing.T) {
	if got := Remediation(nil); got != "" {
		t.Fatalf("Remediation(nil) = %q", got)
	}
}
