package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidResponseShape signals a search payload none of the known shapes match.
	ErrInvalidResponseShape = errors.New("search request failed - response missing expected fields")
	// ErrInvalidResponse signals an envelope that does not carry the expected payload.
	ErrInvalidResponse = errors.New("invalid response format")
	// ErrInvalidParams signals malformed caller input.
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrInvalidCaseName signals an empty case name.
	ErrInvalidCaseName = errors.New("case name cannot be empty")
	// ErrNoDocumentURL signals a document with no resolvable file location.
	ErrNoDocumentURL = errors.New("no valid file path or URL available for document")
	// ErrUnauthenticated signals a missing or expired session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotConfigured signals an optional subsystem that was not set up.
	ErrNotConfigured = errors.New("not configured")
)

// InvalidResponseError wraps ErrInvalidResponse with the operation that received it.
type InvalidResponseError struct {
	Op string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s failed - %s", e.Op, ErrInvalidResponse.Error())
}

func (e *InvalidResponseError) Unwrap() error { return ErrInvalidResponse }

// NewInvalidResponse creates an invalid response error for op.
func NewInvalidResponse(op string) error {
	return &InvalidResponseError{Op: op}
}

// APIError is the structured error object a backend envelope carries when
// success is false.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Field   string         `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

type apiErrorObject APIError

// UnmarshalJSON also accepts a bare error string.
func (e *APIError) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Message)
	}
	return json.Unmarshal(data, (*apiErrorObject)(e))
}

// CheckPathID rejects identifiers that cannot be used as a single URL path segment.
func CheckPathID(kind, id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("%w: invalid %s id %q", ErrInvalidParams, kind, id)
	}
	return nil
}
