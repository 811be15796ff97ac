package apiclient

import (
	"errors"
	"fmt"
)

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx reply. Message holds the server's {"error": ...}
// text and is empty when the body had none.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: api error %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: api error %d", e.Op, e.StatusCode)
}

// ServerMessage returns the structured error text from a StatusError, or "".
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
