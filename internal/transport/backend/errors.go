package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// ErrResponseTooLarge is returned when a response body exceeds the client's
// size cap.
var ErrResponseTooLarge = errors.New("backend response too large")

// HTTPError is a non-2xx backend response. Body holds the decoded envelope
// when the response carried one.
type HTTPError struct {
	StatusCode int
	StatusText string
	Body       *Envelope
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
}

// Unwrap maps well-known statuses onto domain sentinels.
func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthenticated
	default:
		return nil
	}
}

// OperationError is a failure shaped for display. Error returns exactly Message.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return e.Err }

// ClassifyError reduces any failure of op to one human-readable message. It
// prefers, in order: the response body's error object message, the response
// body's message, the envelope error object message, the error text, and
// finally "Failed to <op>". Already classified errors pass through unchanged.
func ClassifyError(err error, op string) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	msg := classifyMessage(err)
	if msg == "" {
		msg = "Failed to " + op
	}
	return &OperationError{Op: op, Message: msg, Err: err}
}

func classifyMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Body != nil {
		if httpErr.Body.Error != nil && httpErr.Body.Error.Message != "" {
			return httpErr.Body.Error.Message
		}
		if httpErr.Body.Message != "" {
			return httpErr.Body.Message
		}
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
