package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain/ranking"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/request"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

const (
	searchPath = "/api/v1/search"
	opSearch   = "search documents"
)

// Service runs document searches against the backend and normalizes results.
type Service struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a search service.
func New(b Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend: b,
		logger:  logger.With(zap.String("component", "search")),
		now:     time.Now,
	}
}

// Search transforms params, posts them and normalizes whichever response
// shape the backend returns. Hits keep backend relevance order.
func (s *Service) Search(ctx context.Context, params request.Params) (result.Response, error) {
	body, err := s.backend.Post(ctx, opSearch, searchPath, request.Transform(params))
	if err != nil {
		return result.Response{}, backend.ClassifyError(err, opSearch)
	}
	resp, err := Normalize(body, s.now())
	if err != nil {
		s.logger.Warn("unrecognized search response", zap.Error(err), zap.Int("bytes", len(body)))
		return result.Response{}, backend.ClassifyError(err, opSearch)
	}
	return resp, nil
}

// SearchRanked runs Search and reorders the hits by legal importance.
func (s *Service) SearchRanked(ctx context.Context, params request.Params) (result.Response, error) {
	resp, err := s.Search(ctx, params)
	if err != nil {
		return result.Response{}, err
	}
	resp.Hits = ranking.Rank(resp.Hits, s.now())
	return resp, nil
}
