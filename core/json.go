package core

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// DecodeStrict decodes a single JSON document from r into v, rejecting unknown fields.
// Malformed payloads are reported as a *ValidationError.
func DecodeStrict(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		const prefix = "json: unknown field "
		if msg := err.Error(); strings.HasPrefix(msg, prefix) {
			field := strings.Trim(strings.TrimPrefix(msg, prefix), `"`)
			return NewValidationError(err, FieldError{Field: field, Error: "unknown field"})
		}
		return NewValidationError(errors.Wrap(err, "decoding payload"))
	}
	if dec.More() {
		return NewValidationError(errors.New("payload must contain a single JSON object"))
	}
	return nil
}

// DecodeStrictBytes is DecodeStrict over a byte slice.
func DecodeStrictBytes(data []byte, v interface{}) error {
	return DecodeStrict(bytes.NewReader(data), v)
}
