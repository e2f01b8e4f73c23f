package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/lexsearch/internal/domain/document"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/request"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
	"github.com/kailas-cloud/lexsearch/internal/metrics"
)

// sampleSize is how many hits each date sample inspects.
const sampleSize = 5

type sample struct {
	field document.DateField
	order string
}

// GlobalDateRange finds the oldest and newest legal date in the corpus by
// sampling every date field in both sort orders concurrently. Failed samples
// count as no signal. Returns nil when no sample yields a parseable date.
func (s *Service) GlobalDateRange(ctx context.Context) (*result.DateRange, error) {
	samples := make([]sample, 0, 2*len(document.DateFields))
	for _, f := range document.DateFields {
		samples = append(samples, sample{f, "asc"}, sample{f, "desc"})
	}

	values := make([]string, len(samples))
	var g errgroup.Group
	for i, p := range samples {
		g.Go(func() error {
			values[i] = s.sample(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var asc, desc []string
	for i, p := range samples {
		if values[i] == "" {
			continue
		}
		if p.order == "asc" {
			asc = append(asc, values[i])
		} else {
			desc = append(desc, values[i])
		}
	}

	oldest, ok := pick(asc, earlier)
	if !ok {
		oldest, ok = pick(desc, earlier)
	}
	if !ok {
		return nil, nil
	}
	newest, ok := pick(desc, later)
	if !ok {
		newest, _ = pick(asc, later)
	}
	return &result.DateRange{Oldest: oldest, Newest: newest}, nil
}

// sample returns the first non-empty value of p.field among the top hits.
func (s *Service) sample(ctx context.Context, p sample) string {
	size := sampleSize
	highlights := false
	resp, err := s.Search(ctx, request.Params{
		Size:              &size,
		SortBy:            p.field.Path(),
		SortOrder:         p.order,
		IncludeHighlights: &highlights,
	})
	if err != nil {
		metrics.DateRangeSampleFailuresTotal.WithLabelValues(string(p.field), p.order).Inc()
		s.logger.Debug("date range sample failed",
			zap.String("field", string(p.field)),
			zap.String("order", p.order),
			zap.Error(err))
		return ""
	}
	for i := range resp.Hits {
		if v := resp.Hits[i].Metadata.Date(p.field); v != "" {
			return v
		}
	}
	return ""
}

func earlier(a, b time.Time) bool { return a.Before(b) }
func later(a, b time.Time) bool   { return a.After(b) }

// pick returns the extreme parseable date per better, in its original form.
func pick(values []string, better func(a, b time.Time) bool) (string, bool) {
	var (
		best   string
		bestAt time.Time
		found  bool
	)
	for _, v := range values {
		t, ok := document.ParseDate(v)
		if !ok {
			continue
		}
		if !found || better(t, bestAt) {
			best, bestAt, found = v, t, true
		}
	}
	return best, found
}
