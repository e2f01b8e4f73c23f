package lexsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// StorageService browses the raw document store behind the search index.
type StorageService struct {
	svc storageUseCase
	obs *observer
}

// List returns every stored document.
func (s *StorageService) List(ctx context.Context) ([]StoredDocument, error) {
	return call(s.obs, "storage_list", func() ([]StoredDocument, error) {
		return s.svc.List(ctx)
	})
}

// Count returns the number of stored documents.
func (s *StorageService) Count(ctx context.Context) (StorageCount, error) {
	return call(s.obs, "storage_count", func() (StorageCount, error) {
		return s.svc.Count(ctx)
	})
}

// Stats summarizes the store.
func (s *StorageService) Stats(ctx context.Context) (StorageStats, error) {
	return call(s.obs, "storage_stats", func() (StorageStats, error) {
		return s.svc.Stats(ctx)
	})
}

// SearchByName finds stored files by name. Failures yield no matches.
func (s *StorageService) SearchByName(ctx context.Context, pattern string) []StoredDocument {
	out, _ := call(s.obs, "storage_search", func() ([]StoredDocument, error) {
		return s.svc.SearchByName(ctx, pattern), nil
	})
	return out
}

// FileURL returns the download URL of a stored path.
func (s *StorageService) FileURL(path string) string { return s.svc.FileURL(path) }

// Download streams a stored file. The caller closes the reader.
func (s *StorageService) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return call(s.obs, "storage_download", func() (io.ReadCloser, error) {
		return s.svc.Download(ctx, path)
	})
}

// Exists reports whether a stored file can be fetched.
func (s *StorageService) Exists(ctx context.Context, path string) bool {
	ok, _ := call(s.obs, "storage_exists", func() (bool, error) {
		return s.svc.Exists(ctx, path), nil
	})
	return ok
}

// DocumentService handles single indexed documents.
type DocumentService struct {
	svc documentUseCase
	obs *observer
}

// Categorise uploads a file for classification and returns the backend's
// verdict as raw JSON.
func (s *DocumentService) Categorise(ctx context.Context, filename string, r io.Reader) (json.RawMessage, error) {
	return call(s.obs, "document_categorise", func() (json.RawMessage, error) {
		return s.svc.Categorise(ctx, filename, r)
	})
}

// Get fetches a document by id.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	return call(s.obs, "document_get", func() (Document, error) {
		return s.svc.Get(ctx, id)
	})
}

// UpdateMetadata replaces a document's editable metadata.
func (s *DocumentService) UpdateMetadata(ctx context.Context, id string, metadata any) (Document, error) {
	return call(s.obs, "document_update", func() (Document, error) {
		return s.svc.UpdateMetadata(ctx, id, metadata)
	})
}

// URL resolves where d can be downloaded from. A named document is looked up
// in the store first.
func (s *DocumentService) URL(ctx context.Context, d *Document) (string, error) {
	return call(s.obs, "document_url", func() (string, error) {
		return s.svc.ResolveURLWithSearch(ctx, d)
	})
}

// Download streams d's file. The caller closes the reader.
func (s *DocumentService) Download(ctx context.Context, d *Document) (io.ReadCloser, error) {
	return call(s.obs, "document_download", func() (io.ReadCloser, error) {
		return s.svc.Download(ctx, d)
	})
}

// DownloadByID fetches a document and streams its file.
func (s *DocumentService) DownloadByID(ctx context.Context, id string) (io.ReadCloser, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", id, err)
	}
	return s.Download(ctx, &d)
}

// RedactionService finds and applies redactions.
type RedactionService struct {
	svc redactionUseCase
	obs *observer
}

// Analyze uploads a file and returns the areas that need redacting.
func (s *RedactionService) Analyze(ctx context.Context, filename string, r io.Reader) (AnalyzeResult, error) {
	return call(s.obs, "redaction_analyze", func() (AnalyzeResult, error) {
		return s.svc.Analyze(ctx, filename, r)
	})
}

// Redact asks the backend for a redacted copy of a stored document.
func (s *RedactionService) Redact(ctx context.Context, documentID string, apply bool) (RedactResult, error) {
	return call(s.obs, "redaction_redact", func() (RedactResult, error) {
		return s.svc.Redact(ctx, documentID, apply)
	})
}

// Analysis returns the stored analysis of a document, or nil when there is none.
func (s *RedactionService) Analysis(ctx context.Context, documentID string) *RedactionAnalysis {
	a, _ := call(s.obs, "redaction_analysis", func() (*RedactionAnalysis, error) {
		return s.svc.Analysis(ctx, documentID), nil
	})
	return a
}
