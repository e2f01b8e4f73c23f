package catalog

import (
	"context"
	"net/url"
)

// Backend is the subset of the backend client catalog lookups need.
type Backend interface {
	Get(ctx context.Context, op, path string, query url.Values) ([]byte, error)
}
