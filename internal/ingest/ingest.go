// Package ingest finds voucher PDFs on the local filesystem for batch runs.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
)

// MaxFileBytes bounds what a batch run reads into memory.
const MaxFileBytes = 64 << 20

// File is a voucher read from disk.
type File struct {
	Path    string
	Data    []byte
	HashHex string
}

// ReadFile reads a voucher PDF and hashes its content.
func ReadFile(path string) (File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return File{}, err
	}
	if !constants.IsAllowedPath(abs) {
		return File{}, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}
	st, err := os.Stat(abs)
	if err != nil {
		return File{}, err
	}
	if st.Size() > MaxFileBytes {
		return File{}, fmt.Errorf("%s is %d bytes, limit is %d", abs, st.Size(), MaxFileBytes)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return File{}, err
	}
	sum := sha256.Sum256(data)
	return File{Path: abs, Data: data, HashHex: hex.EncodeToString(sum[:])}, nil
}

// Dedup remembers content hashes so the same voucher is not processed twice.
type Dedup struct {
	mu   sync.Mutex
	seen map[string]string // hash -> first path
}

func NewDedup() *Dedup {
	return &Dedup{seen: map[string]string{}}
}

// Seen records hash and reports the path it was first seen at, if any.
func (d *Dedup) Seen(hash, path string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if first, ok := d.seen[hash]; ok {
		return first, true
	}
	d.seen[hash] = path
	return "", false
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
