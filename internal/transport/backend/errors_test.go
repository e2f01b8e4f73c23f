package backend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

func TestClassifyError_Order(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "response body error object",
			err: &HTTPError{StatusCode: 400, StatusText: "Bad Request", Body: &Envelope{
				Message: "outer", Error: &domain.APIError{Message: "X"},
			}},
			want: "X",
		},
		{
			name: "response body message",
			err:  &HTTPError{StatusCode: 400, StatusText: "Bad Request", Body: &Envelope{Message: "body message"}},
			want: "body message",
		},
		{
			name: "envelope error object",
			err:  fmt.Errorf("decode: %w", &domain.APIError{Code: "E", Message: "business rule"}),
			want: "business rule",
		},
		{
			name: "http status",
			err:  &HTTPError{StatusCode: 404, StatusText: "Not Found"},
			want: "HTTP 404: Not Found",
		},
		{
			name: "generic",
			err:  errors.New("connection refused"),
			want: "connection refused",
		},
		{
			name: "empty",
			err:  errors.New(""),
			want: "Failed to search documents",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err, "search documents")
			if got.Error() != tt.want {
				t.Errorf("ClassifyError = %q, want %q", got.Error(), tt.want)
			}
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if ClassifyError(nil, "x") != nil {
		t.Error("expected nil")
	}
}

func TestClassifyError_KeepsCause(t *testing.T) {
	err := ClassifyError(&HTTPError{StatusCode: 404, StatusText: "Not Found"}, "get document")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound)")
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "get document" {
		t.Errorf("OperationError = %+v", opErr)
	}

	err = ClassifyError(domain.NewInvalidResponse("Batch status"), "get batch job status")
	if !errors.Is(err, domain.ErrInvalidResponse) {
		t.Error("expected errors.Is(err, ErrInvalidResponse)")
	}
}

func TestClassifyError_Idempotent(t *testing.T) {
	first := ClassifyError(errors.New("boom"), "a")
	second := ClassifyError(fmt.Errorf("wrapped: %w", first), "b")
	if second.Error() != "wrapped: boom" {
		t.Errorf("second = %q", second.Error())
	}
	if again := ClassifyError(first, "b"); again != first {
		t.Error("classified error should pass through unchanged")
	}
}

func TestHTTPError_Unwrap(t *testing.T) {
	if !errors.Is(&HTTPError{StatusCode: 401}, domain.ErrUnauthenticated) {
		t.Error("401 should unwrap to ErrUnauthenticated")
	}
	if errors.Is(&HTTPError{StatusCode: 500}, domain.ErrNotFound) {
		t.Error("500 should not unwrap to ErrNotFound")
	}
}
