package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

// StripCodeFences removes a surrounding Markdown code fence (``` or ```json).
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:] // drop the info string, e.g. "json"
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseRawFieldMap turns an oracle reply into a RawFieldMap. Anything that is not a flat
// JSON object of scalars/arrays is an OracleMalformed error; nothing is coerced.
func ParseRawFieldMap(content string) (RawFieldMap, error) {
	body := StripCodeFences(content)
	if body == "" {
		return nil, common.OracleMalformed("empty reply", nil)
	}
	if err := ValidateRawFieldMap([]byte(body)); err != nil {
		return nil, common.OracleMalformed("reply does not match the field map shape", err)
	}
	out, err := decodeOrdered([]byte(body))
	if err != nil {
		return nil, common.OracleMalformed("decode reply", err)
	}
	return out, nil
}

// decodeOrdered walks the object token by token so key order and duplicate keys
// survive. Arrays of scalars are joined with newlines.
func decodeOrdered(data []byte) (RawFieldMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}

	out := RawFieldMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out = append(out, RawField{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	return out, nil
}

func decodeValue(dec *json.Decoder) (*string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); ok {
		if d != '[' {
			return nil, errors.New("nested objects are not allowed")
		}
		var items []string
		for dec.More() {
			t, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if _, nested := t.(json.Delim); nested {
				return nil, errors.New("nested arrays are not allowed")
			}
			if s, ok := scalarText(t); ok {
				items = append(items, s)
			}
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return nil, err
		}
		joined := strings.Join(items, "\n")
		return &joined, nil
	}
	if tok == nil {
		return nil, nil
	}
	s, _ := scalarText(tok)
	return &s, nil
}

func scalarText(tok json.Token) (string, bool) {
	switch v := tok.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}
