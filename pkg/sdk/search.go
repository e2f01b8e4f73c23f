package lexsearch

import (
	"context"
	"fmt"
)

// SearchService runs searches against the document index.
type SearchService struct {
	svc       searchUseCase
	dateRange dateRangeSource
	obs       *observer
}

// Query runs a search and returns hits in backend relevance order.
func (s *SearchService) Query(ctx context.Context, params SearchParams) (SearchResponse, error) {
	return call(s.obs, "search", func() (SearchResponse, error) {
		if err := params.Validate(); err != nil {
			return SearchResponse{}, err
		}
		res, err := s.svc.Search(ctx, params)
		if err != nil {
			return SearchResponse{}, fmt.Errorf("search: %w", err)
		}
		return res, nil
	})
}

// Ranked runs a search and reorders the page by legal importance.
func (s *SearchService) Ranked(ctx context.Context, params SearchParams) (SearchResponse, error) {
	return call(s.obs, "search_ranked", func() (SearchResponse, error) {
		if err := params.Validate(); err != nil {
			return SearchResponse{}, err
		}
		res, err := s.svc.SearchRanked(ctx, params)
		if err != nil {
			return SearchResponse{}, fmt.Errorf("search: %w", err)
		}
		return res, nil
	})
}

// DateRange returns the oldest and newest legal date in the corpus, or nil
// when no document carries one.
func (s *SearchService) DateRange(ctx context.Context) (*CorpusDateRange, error) {
	return call(s.obs, "date_range", func() (*CorpusDateRange, error) {
		return s.dateRange.GlobalDateRange(ctx)
	})
}

// RefreshDateRange drops a cached date range so the next DateRange call
// re-samples the backend. Without a cache it does nothing.
func (s *SearchService) RefreshDateRange(ctx context.Context) error {
	inv, ok := s.dateRange.(interface{ Invalidate(context.Context) error })
	if !ok {
		return nil
	}
	return inv.Invalidate(ctx)
}
