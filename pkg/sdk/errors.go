package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportErrorMessage is reported when no response was received.
const TransportErrorMessage = "network error: backend unreachable"

// ErrNoPortfolioData is returned by GetPortfolioStats when the backend has no
// deals to aggregate.
var ErrNoPortfolioData = errors.New("doccompare: no portfolio data")

// APIError is the single error shape returned by every client call.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("doccompare: api %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode extracts the HTTP status from err, 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func transportError(requestID string, err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    TransportErrorMessage,
		RequestID:  requestID,
		Err:        err,
	}
}

func statusError(requestID string, status int, detail string) *APIError {
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}
	return &APIError{StatusCode: status, Message: msg, RequestID: requestID}
}
