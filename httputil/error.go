package httputil

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// APIStatus is the application level outcome reported in the body of every response
type APIStatus string

const (
	StatusOK     APIStatus = "ok"
	StatusFailed APIStatus = "failed"
)

const (
	FieldStatus       = "status"
	FieldErrorMessage = "errorMessage"
	FieldEntries      = "entries"
	FieldRVTs         = "rvts"
	FieldRedirectURL  = "redirect_url"
	FieldMode         = "mode"
)

// Envelope is the JSON object returned by the backend. Keys are kept raw so
// that presence can be told apart from zero values.
type Envelope map[string]json.RawMessage

// DecodeEnvelope parses body as a JSON object.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var envelope Envelope

	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decode response envelope")
	}

	if envelope == nil {
		return nil, errors.New("decode response envelope: body is not a JSON object")
	}

	return envelope, nil
}

// Has reports whether the key is present in the envelope
func (e Envelope) Has(name string) bool {
	_, ok := e[name]

	return ok
}

// Status returns the application level status, or "" if missing.
func (e Envelope) Status() APIStatus {
	var status APIStatus

	if err := e.Field(FieldStatus, &status); err != nil {
		return ""
	}

	return status
}

// ErrorMessage returns the errorMessage value and whether it was present.
// A present key holding a non-string value is treated as absent.
func (e Envelope) ErrorMessage() (string, bool) {
	if !e.Has(FieldErrorMessage) {
		return "", false
	}

	var message string

	if err := json.Unmarshal(e[FieldErrorMessage], &message); err != nil {
		return "", false
	}

	return message, true
}

// Field decodes the named key into out. A missing key leaves out untouched.
func (e Envelope) Field(name string, out interface{}) error {
	raw, ok := e[name]

	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode field %q", name)
	}

	return nil
}
