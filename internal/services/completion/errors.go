package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ConnectionError is a transport failure reaching the completion service
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TimeoutError is a request that exceeded the client timeout
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx API response. It is never retried.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("OpenAI API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("OpenAI API error %d: %s", e.StatusCode, e.Message)
}

// IsTransient reports whether err is a connection or timeout failure
func IsTransient(err error) bool {
	var connErr *ConnectionError
	var timeoutErr *TimeoutError
	return errors.As(err, &connErr) || errors.As(err, &timeoutErr)
}

// ErrorKind names the failure class for log lines
func ErrorKind(err error) string {
	var connErr *ConnectionError
	var timeoutErr *TimeoutError
	var statusErr *StatusError
	switch {
	case errors.As(err, &timeoutErr):
		return "TimeoutError"
	case errors.As(err, &connErr):
		return "ConnectionError"
	case errors.As(err, &statusErr):
		return "StatusError"
	default:
		return fmt.Sprintf("%T", err)
	}
}

// classifyTransportError maps a failed request onto the transient error
// types. Cancellation of ctx and errors that did not come from the network
// (such as response decoding) stay non-transient.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Err: err}
	}
	if errors.As(err, &netErr) {
		return &ConnectionError{Err: err}
	}
	return err
}
