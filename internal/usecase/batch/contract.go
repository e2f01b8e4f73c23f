package batch

import (
	"context"
	"net/url"
)

// Backend is the subset of the backend client batch jobs need.
type Backend interface {
	Get(ctx context.Context, op, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, op, path string, body any) ([]byte, error)
	Delete(ctx context.Context, op, path string) ([]byte, error)
}
