package jsonutils

import (
	"bytes"
	"encoding/json"
)

// Marshal encodes v as a single line without escaping <, > and &.
func Marshal(v interface{}) ([]byte, error) {
	return encode(v, "")
}

// MarshalIndent is Marshal with 2-space indentation.
func MarshalIndent(v interface{}) ([]byte, error) {
	return encode(v, "  ")
}

func encode(v interface{}, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode always appends a newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode unmarshals raw into dst. Empty or null input leaves dst untouched.
func Decode(raw []byte, dst interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, dst)
}
