package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"nope"}, {"text"}, {"render", "a.pdf", "b.pdf"}, {"batch"}} {
		if code := run(args); code != exitUsage {
			t.Fatalf("run(%q) = %d, want %d", args, code, exitUsage)
		}
	}
}

func TestDefaultOutputName(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 5, 9, 0, time.UTC)
	if got := defaultOutputName(now); got != "standardized_voucher_20240310_140509.pdf" {
		t.Fatalf("name = %q", got)
	}
}

func TestBatchOutputPath(t *testing.T) {
	got := batchOutputPath("/out", "/in/Booking 123.PDF")
	if got != filepath.Join("/out", "Booking 123_standardized.pdf") {
		t.Fatalf("path = %q", got)
	}
}

func TestLoadRawFields(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.json")
	wrapped := filepath.Join(dir, "wrapped.json")
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(plain, []byte(`{"Hotel": "Grand Hotel", "Check-in": null}`), 0o644)
	_ = os.WriteFile(wrapped, []byte(`{"request_id": "x", "raw": {"Hotel": "Grand Hotel"}, "issues": []}`), 0o644)
	_ = os.WriteFile(bad, []byte(`[1, 2]`), 0o644)

	raw, err := loadRawFields(plain)
	if err != nil || len(raw) != 2 || raw[0].Key != "Hotel" || raw[1].Value != nil {
		t.Fatalf("plain = %+v, %v", raw, err)
	}
	raw, err = loadRawFields(wrapped)
	if err != nil || len(raw) != 1 || *raw[0].Value != "Grand Hotel" {
		t.Fatalf("wrapped = %+v, %v", raw, err)
	}
	if _, err := loadRawFields(bad); err == nil {
		t.Fatalf("array should fail")
	}

	nested := filepath.Join(dir, "nested.json")
	_ = os.WriteFile(nested, []byte(`{"room": {"type": "Deluxe King"}}`), 0o644)
	if _, err := loadRawFields(nested); err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("nested object err = %v, want schema error", err)
	}
}
