package search

import "context"

// Backend posts JSON to the document backend and returns the raw response body.
type Backend interface {
	Post(ctx context.Context, op, path string, body any) ([]byte, error)
}
