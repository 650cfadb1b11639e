package weather

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingAPIKey    = errors.New("weatherapi api key is not configured")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrNoProvider       = errors.New("no weather provider configured")
	ErrControllerClosed = errors.New("controller closed")
)

// HTTPError is returned when the provider answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Reason     string

	// Populated from the provider's JSON error body when one was sent.
	ProviderCode    int
	ProviderMessage string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("http %d %s", e.StatusCode, e.Reason)
	if e.ProviderMessage != "" {
		msg += ": " + e.ProviderMessage
	}
	return msg
}

// NewHTTPError builds an HTTPError from a status line such as "400 Bad Request".
func NewHTTPError(statusCode int, status string) *HTTPError {
	reason := strings.TrimSpace(strings.TrimPrefix(status, fmt.Sprintf("%d", statusCode)))
	if reason == "" {
		reason = http.StatusText(statusCode)
	}
	if reason == "" {
		reason = "unexpected status"
	}
	return &HTTPError{StatusCode: statusCode, Reason: reason}
}

// TransportError covers connectivity, timeouts, undecodable bodies and an open
// circuit breaker.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LocalError means the request could not be started at all.
type LocalError struct {
	Err error
}

func (e *LocalError) Error() string {
	return e.Err.Error()
}

func (e *LocalError) Unwrap() error { return e.Err }

// FailureMessage turns any error into the text carried by a Failure state.
func FailureMessage(err error) string {
	if err == nil {
		return "unknown error"
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.ProviderMessage != "" {
			return httpErr.Reason + ": " + httpErr.ProviderMessage
		}
		return httpErr.Reason
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "request failed: " + transportErr.Err.Error()
	}

	var localErr *LocalError
	if errors.As(err, &localErr) {
		return localErr.Err.Error()
	}

	return err.Error()
}
