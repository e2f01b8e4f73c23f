package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	"github.com/kailas-cloud/lexsearch/internal/domain/document"
	"github.com/kailas-cloud/lexsearch/internal/domain/storage"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

const (
	opCategorise = "categorize document"
	opUpdate     = "update document metadata"
	opGet        = "get document"
	opFileSearch = "search files"
	opDownload   = "download document"
)

// Service handles single-document operations: upload for classification,
// metadata edits, lookup, and download location resolution.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a documents service.
func New(b Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, logger: logger.With(zap.String("component", "documents"))}
}

// Categorise uploads a file for classification and returns the classifier
// payload as sent by the backend.
func (s *Service) Categorise(ctx context.Context, filename string, r io.Reader) (json.RawMessage, error) {
	body, err := s.backend.Upload(ctx, opCategorise, "/api/v1/categorise", "file", filename, r)
	if err != nil {
		return nil, backend.ClassifyError(err, opCategorise)
	}
	out, err := backend.DecodeStrict[json.RawMessage](body, "Document categorization")
	if err != nil {
		return nil, backend.ClassifyError(err, opCategorise)
	}
	return out, nil
}

type updateRequest struct {
	DocumentID string `json:"document_id"`
	Metadata   any    `json:"metadata"`
}

// UpdateMetadata replaces a document's metadata and returns the updated document.
func (s *Service) UpdateMetadata(ctx context.Context, id string, metadata any) (document.Document, error) {
	if err := domain.CheckPathID("document", id); err != nil {
		return document.Document{}, err
	}
	body, err := s.backend.Post(ctx, opUpdate, "/api/v1/update-metadata", updateRequest{DocumentID: id, Metadata: metadata})
	if err != nil {
		return document.Document{}, backend.ClassifyError(err, opUpdate)
	}
	doc, err := backend.DecodeStrict[document.Document](body, "Metadata update")
	if err != nil {
		return document.Document{}, backend.ClassifyError(err, opUpdate)
	}
	return doc, nil
}

// Get fetches a document by id.
func (s *Service) Get(ctx context.Context, id string) (document.Document, error) {
	if err := domain.CheckPathID("document", id); err != nil {
		return document.Document{}, err
	}
	body, err := s.backend.Get(ctx, opGet, "/api/v1/documents/"+id, nil)
	if err != nil {
		return document.Document{}, backend.ClassifyError(err, opGet)
	}
	doc, err := backend.DecodeStrict[document.Document](body, "Get document")
	if err != nil {
		return document.Document{}, backend.ClassifyError(err, opGet)
	}
	return doc, nil
}

// SearchFiles looks files up by name. It is best effort: any failure is
// logged and yields an empty list.
func (s *Service) SearchFiles(ctx context.Context, name string) []document.FileMatch {
	body, err := s.backend.Get(ctx, opFileSearch, "/api/v1/files/search", url.Values{"name": {name}})
	if err != nil {
		s.logger.Warn("file search failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	res, err := backend.DecodeStrict[storage.FileSearch](body, "File search")
	if err != nil {
		s.logger.Warn("file search returned an unexpected payload", zap.String("name", name), zap.Error(err))
		return nil
	}
	return res.Documents
}

// ResolveURL returns the download URL derivable from the document alone.
func (s *Service) ResolveURL(d *document.Document) (string, error) {
	return document.ResolveURL(s.backend.BaseURL(), d)
}

// ResolveURLWithSearch prefers the backend's own file location for a named
// document and falls back to ResolveURL.
func (s *Service) ResolveURLWithSearch(ctx context.Context, d *document.Document) (string, error) {
	if d.FileName != "" {
		if m, ok := document.BestMatch(d.FileName, s.SearchFiles(ctx, d.FileName)); ok {
			if u, ok := m.URL(s.backend.BaseURL()); ok {
				return u, nil
			}
		}
	}
	return s.ResolveURL(d)
}

// Download opens the document's file. The caller must close the reader.
func (s *Service) Download(ctx context.Context, d *document.Document) (io.ReadCloser, error) {
	target, err := s.ResolveURL(d)
	if errors.Is(err, domain.ErrNoDocumentURL) {
		target, err = s.ResolveURLWithSearch(ctx, d)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve document url: %w", err)
	}
	rc, err := s.backend.Open(ctx, opDownload, target)
	if err != nil {
		return nil, backend.ClassifyError(err, opDownload)
	}
	return rc, nil
}
