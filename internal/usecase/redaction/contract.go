package redaction

import (
	"context"
	"io"
	"net/url"
)

// Backend is the subset of the backend client redaction needs.
type Backend interface {
	Get(ctx context.Context, op, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, op, path string, body any) ([]byte, error)
	Upload(ctx context.Context, op, path, field, filename string, r io.Reader) ([]byte, error)
}
