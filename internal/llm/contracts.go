package llm

import (
	"bytes"
	"context"
	"encoding/json"
)

// RawField is one key/value pair exactly as the oracle emitted it. A nil Value is JSON null.
type RawField struct {
	Key   string
	Value *string
}

// RawFieldMap keeps the oracle's keys in emission order, duplicates included.
type RawFieldMap []RawField

// Get returns the last value emitted under key.
func (m RawFieldMap) Get(key string) (*string, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i].Key == key {
			return m[i].Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the pairs as a JSON object in order.
func (m RawFieldMap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		if f.Value == nil {
			b.WriteString("null")
			continue
		}
		v, err := json.Marshal(*f.Value)
		if err != nil {
			return nil, err
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON accepts the same shape the oracle is held to.
func (m *RawFieldMap) UnmarshalJSON(data []byte) error {
	out, err := decodeOrdered(data)
	if err != nil {
		return err
	}
	*m = out
	return nil
}

// Str is a helper for building RawFieldMaps.
func Str(s string) *string { return &s }

type ExtractRequest struct {
	Text         string // acquired voucher text
	FilenameHint string
	UsedOCR      bool
}

// FieldExtractor is the interface our pipeline depends on. On error the returned
// RawFieldMap is nil; the raw bytes, when present, are for diagnostics only.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (RawFieldMap, []byte /*rawJSON*/, error)
}
