package command

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestExecRunnerPipesStdin(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	r := NewExecRunner(nil)
	out, _, err := r.Run(context.Background(), strings.NewReader("hello voucher"), "cat")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(out) != "hello voucher" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestExecRunnerReportsFailure(t *testing.T) {
	r := NewExecRunner(nil)
	if _, _, err := r.Run(context.Background(), nil, "definitely-not-a-real-binary-xyz"); err == nil {
		t.Fatalf("expected error for missing binary")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abc", 5); got != "abc" {
		t.Fatalf("Truncate short = %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc...(truncated)" {
		t.Fatalf("Truncate long = %q", got)
	}
}
