package documents

import (
	"context"
	"io"
	"net/url"
)

// Backend is the subset of the backend client document operations need.
type Backend interface {
	BaseURL() string
	Get(ctx context.Context, op, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, op, path string, body any) ([]byte, error)
	Upload(ctx context.Context, op, path, field, filename string, r io.Reader) ([]byte, error)
	Open(ctx context.Context, op, rawURL string) (io.ReadCloser, error)
}
