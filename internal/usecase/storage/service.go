package storage

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	"github.com/kailas-cloud/lexsearch/internal/domain/document"
	domstorage "github.com/kailas-cloud/lexsearch/internal/domain/storage"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

const (
	opList     = "list storage documents"
	opCount    = "get storage documents count"
	opStats    = "get storage statistics"
	opDownload = "download storage document"
)

// Service browses the raw document store behind the search index.
type Service struct {
	backend Backend
	files   FileSearcher
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a storage service.
func New(b Backend, files FileSearcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend: b,
		files:   files,
		logger:  logger.With(zap.String("component", "storage")),
		now:     time.Now,
	}
}

// List returns every stored document. The backend sends either a bare array
// or an object holding documents; anything else is an empty listing.
func (s *Service) List(ctx context.Context) ([]domstorage.Document, error) {
	body, err := s.backend.Get(ctx, opList, "/api/v1/storage/documents", nil)
	if err != nil {
		return nil, backend.ClassifyError(err, opList)
	}
	env, err := backend.ParseEnvelope(body)
	if err == nil {
		err = env.Failure()
	}
	if err == nil && (!env.Succeeded() || !env.HasData()) {
		err = domain.NewInvalidResponse("Storage listing")
	}
	if err != nil {
		return nil, backend.ClassifyError(err, opList)
	}

	var docs []domstorage.Document
	if json.Unmarshal(env.Data, &docs) == nil {
		return docs, nil
	}
	var wrapped struct {
		Documents []domstorage.Document `json:"documents"`
	}
	if json.Unmarshal(env.Data, &wrapped) == nil && wrapped.Documents != nil {
		return wrapped.Documents, nil
	}
	return []domstorage.Document{}, nil
}

// Count returns the backend's document tally.
func (s *Service) Count(ctx context.Context) (domstorage.Count, error) {
	body, err := s.backend.Get(ctx, opCount, "/api/v1/storage/documents/count", nil)
	if err != nil {
		return domstorage.Count{}, backend.ClassifyError(err, opCount)
	}
	c, err := backend.DecodeStrict[domstorage.Count](body, "Storage count")
	if err != nil {
		return domstorage.Count{}, backend.ClassifyError(err, opCount)
	}
	return c, nil
}

// Stats fetches the count and the listing concurrently and summarizes them.
func (s *Service) Stats(ctx context.Context) (domstorage.Stats, error) {
	var (
		count domstorage.Count
		docs  []domstorage.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = s.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domstorage.Stats{}, backend.ClassifyError(err, opStats)
	}
	return domstorage.NewStats(count, docs, s.now()), nil
}

// SearchByName finds stored files whose name matches pattern. Best effort.
func (s *Service) SearchByName(ctx context.Context, pattern string) []domstorage.Document {
	matches := s.files.SearchFiles(ctx, pattern)
	out := make([]domstorage.Document, 0, len(matches))
	now := s.now()
	for _, m := range matches {
		out = append(out, domstorage.FromMatch(s.backend.BaseURL(), m, now))
	}
	return out
}

// FileURL returns the serving URL of a storage path.
func (s *Service) FileURL(path string) string {
	return document.FileURL(s.backend.BaseURL(), path)
}

// Download opens a stored file. The caller must close the reader.
func (s *Service) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.backend.Open(ctx, opDownload, s.FileURL(path))
	if err != nil {
		return nil, backend.ClassifyError(err, opDownload)
	}
	return rc, nil
}

// Exists reports whether a stored file answers a HEAD request with 2xx.
// Transport failures count as absent.
func (s *Service) Exists(ctx context.Context, path string) bool {
	ok, err := s.backend.Exists(ctx, s.FileURL(path))
	if err != nil {
		s.logger.Warn("storage existence check failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return ok
}
