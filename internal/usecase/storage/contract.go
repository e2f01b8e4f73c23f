package storage

import (
	"context"
	"io"
	"net/url"

	"github.com/kailas-cloud/lexsearch/internal/domain/document"
)

// Backend is the subset of the backend client storage browsing needs.
type Backend interface {
	BaseURL() string
	Get(ctx context.Context, op, path string, query url.Values) ([]byte, error)
	Open(ctx context.Context, op, rawURL string) (io.ReadCloser, error)
	Exists(ctx context.Context, rawURL string) (bool, error)
}

// FileSearcher finds stored files by name.
type FileSearcher interface {
	SearchFiles(ctx context.Context, name string) []document.FileMatch
}
