// Package jsonutil decodes the loosely formatted JSON that chat models return.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
)

var ErrNoJSON = errors.New("jsonutil: no JSON value found")

// UnmarshalFlex tries, in order:
//  1. a direct unmarshal
//  2. the body of a ```json fenced block
//  3. a JSON document that was itself encoded as a JSON string
//  4. the outermost {...} object embedded in surrounding prose
func UnmarshalFlex(raw []byte, v any) error {
	raw = bytes.TrimSpace(raw)
	first := json.Unmarshal(raw, v)
	if first == nil {
		return nil
	}
	for _, candidate := range [][]byte{unfence(raw), unquote(raw), outerObject(raw)} {
		if len(candidate) == 0 {
			continue
		}
		if err := json.Unmarshal(candidate, v); err == nil {
			return nil
		}
	}
	if len(raw) == 0 {
		return ErrNoJSON
	}
	return first
}

// MarshalNoEscape encodes v without escaping <, > and & and without the
// trailing newline json.Encoder adds.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func unfence(raw []byte) []byte {
	start := bytes.Index(raw, []byte("```"))
	if start < 0 {
		return nil
	}
	body := raw[start+3:]
	// drop the info string ("json") up to the first newline
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	end := bytes.Index(body, []byte("```"))
	if end < 0 {
		return nil
	}
	return bytes.TrimSpace(body[:end])
}

func unquote(raw []byte) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return bytes.TrimSpace([]byte(s))
}

func outerObject(raw []byte) []byte {
	i := bytes.IndexByte(raw, '{')
	j := bytes.LastIndexByte(raw, '}')
	if i < 0 || j <= i {
		return nil
	}
	return raw[i : j+1]
}
