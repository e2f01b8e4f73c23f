package backend

import (
	"bytes"
	"encoding/json"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// Envelope is the backend's response wrapper. Some endpoints send status
// instead of success, and some send no wrapper at all.
type Envelope struct {
	Success   *bool            `json:"success,omitempty"`
	Status    string           `json:"status,omitempty"`
	Message   string           `json:"message,omitempty"`
	Data      json.RawMessage  `json:"data,omitempty"`
	Error     *domain.APIError `json:"error,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
}

// ParseEnvelope decodes body as an envelope.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Succeeded reports whether success is literally true.
func (e *Envelope) Succeeded() bool { return e.Success != nil && *e.Success }

// HasData reports whether data is present and not null, false, zero or empty.
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	switch string(d) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// Failure returns the envelope's error object when it reports a business failure.
func (e *Envelope) Failure() error {
	if e.Success != nil && !*e.Success && e.Error != nil {
		return e.Error
	}
	return nil
}

// DecodeStrict unmarshals data from an envelope that must report success:true
// with a payload. A business failure returns the envelope's error object; any
// other mismatch is an invalid response for op.
func DecodeStrict[T any](body []byte, op string) (T, error) {
	var zero T
	env, err := ParseEnvelope(body)
	if err != nil {
		return zero, domain.NewInvalidResponse(op)
	}
	if fail := env.Failure(); fail != nil {
		return zero, fail
	}
	if !env.Succeeded() || !env.HasData() {
		return zero, domain.NewInvalidResponse(op)
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, domain.NewInvalidResponse(op)
	}
	return out, nil
}
