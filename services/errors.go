package services

import (
	"errors"
	"fmt"

	"fdo-conformance-client/metrics"
)

const (
	MsgMissingRequiredField   = "Missing required field!"
	MsgMissingEmailOrPassword = "Missing email and/or password!"
	MsgPasswordsDoNotMatch    = "Passwords do not match!"
	MsgUnexpectedError        = "Unexpected error"
	transportErrorPrefix      = "Error sending request: "
)

// ValidationError is returned when an argument fails a local check. No
// request has been sent.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError is returned when no 200 response could be obtained, or when
// the response body could not be decoded. StatusCode is 0 when the request
// never got a response.
type TransportError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	return transportErrorPrefix + e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// LogicalError is returned when the backend answered 200 but reported a
// status other than "ok" in the body.
type LogicalError struct {
	Status string
}

func (e *LogicalError) Error() string {
	return MsgUnexpectedError
}

// Tier classifies the errors returned by the client
type Tier int

const (
	TierNone Tier = iota
	TierValidation
	TierTransport
	TierLogical
	TierUnknown
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierValidation:
		return metrics.TierValidation
	case TierTransport:
		return metrics.TierTransport
	case TierLogical:
		return metrics.TierLogical
	default:
		return "unknown"
	}
}

// TierOf returns the tier of err so that callers can branch on a single value
func TierOf(err error) Tier {
	if err == nil {
		return TierNone
	}

	var validationErr *ValidationError
	var transportErr *TransportError
	var logicalErr *LogicalError

	switch {
	case errors.As(err, &validationErr):
		return TierValidation
	case errors.As(err, &transportErr):
		return TierTransport
	case errors.As(err, &logicalErr):
		return TierLogical
	default:
		return TierUnknown
	}
}

func newTransportError(statusCode int, cause error, format string, args ...interface{}) *TransportError {
	return &TransportError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf(format, args...),
		Cause:      cause,
	}
}
