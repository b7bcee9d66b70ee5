// Package jsonutil holds small helpers for loosely shaped JSON payloads.
package jsonutil

import (
	"bytes"
	"encoding/json"
)

// Convert re-decodes v as T by round-tripping it through JSON
func Convert[T any](v any) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

// IsNull reports whether raw is empty or the JSON literal null
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// FirstByte returns the first non-space byte of raw, or 0
func FirstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
