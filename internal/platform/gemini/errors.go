package gemini

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a generation call produced no usable result.
type ErrorKind string

const (
	KindTimeout            ErrorKind = "timeout"
	KindRateLimitExhausted ErrorKind = "rate_limit_exhausted"
	KindInvalidResponse    ErrorKind = "invalid_response"
	KindTransport          ErrorKind = "transport"
)

// ErrRetriesExceeded is wrapped by every KindRateLimitExhausted error.
var ErrRetriesExceeded = errors.New("gemini: rate-limit retries exceeded")

type ModelError struct {
	Kind       ErrorKind
	Attempts   int
	StatusCode int
	Err        error
}

func (e *ModelError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("gemini %s after %d attempt(s)", e.Kind, e.Attempts)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (http %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelError) Unwrap() error { return e.Err }

// KindOf returns the ModelError kind carried by err, or "" if err is not a ModelError.
func KindOf(err error) ErrorKind {
	var me *ModelError
	if errors.As(err, &me) {
		return me.Kind
	}
	return ""
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func (e *httpError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}
