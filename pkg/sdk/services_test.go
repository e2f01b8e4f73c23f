package lexsearch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	dombatch "github.com/kailas-cloud/lexsearch/internal/domain/batch"
	domcases "github.com/kailas-cloud/lexsearch/internal/domain/cases"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/request"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/lexsearch/internal/domain/session"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
	batchuc "github.com/kailas-cloud/lexsearch/internal/usecase/batch"
)

// --- SearchService ---

func TestSearchService_Query(t *testing.T) {
	mock := &mockSearchUC{
		searchFn: func(_ context.Context, p request.Params) (result.Response, error) {
			if p.Query != "suppress" {
				t.Errorf("Query = %q, want suppress", p.Query)
			}
			return result.Response{Total: 1}, nil
		},
	}
	svc := &SearchService{svc: mock}
	res, err := svc.Query(context.Background(), SearchParams{Query: "suppress"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("Total = %d, want 1", res.Total)
	}
}

func TestSearchService_Query_InvalidParams(t *testing.T) {
	mock := &mockSearchUC{
		searchFn: func(context.Context, request.Params) (result.Response, error) {
			t.Error("backend should not be called")
			return result.Response{}, nil
		},
	}
	svc := &SearchService{svc: mock}
	_, err := svc.Query(context.Background(), SearchParams{Size: Int(-1)})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestSearchService_Ranked(t *testing.T) {
	called := false
	mock := &mockSearchUC{
		rankedFn: func(context.Context, request.Params) (result.Response, error) {
			called = true
			return result.Response{}, nil
		},
	}
	svc := &SearchService{svc: mock}
	if _, err := svc.Ranked(context.Background(), SearchParams{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("SearchRanked was not called")
	}
}

func TestSearchService_Query_Error(t *testing.T) {
	mock := &mockSearchUC{
		searchFn: func(context.Context, request.Params) (result.Response, error) {
			return result.Response{}, ErrInvalidResponseShape
		},
	}
	svc := &SearchService{svc: mock}
	_, err := svc.Query(context.Background(), SearchParams{})
	if !errors.Is(err, ErrInvalidResponseShape) {
		t.Errorf("err = %v, want ErrInvalidResponseShape", err)
	}
}

// --- BatchService ---

type cachedRange struct {
	calls, invalidated int
}

func (c *cachedRange) GlobalDateRange(context.Context) (*CorpusDateRange, error) {
	c.calls++
	return &CorpusDateRange{Oldest: "2018-03-01", Newest: "2024-11-30"}, nil
}

func (c *cachedRange) Invalidate(context.Context) error {
	c.invalidated++
	return nil
}

type plainRange struct{}

func (plainRange) GlobalDateRange(context.Context) (*CorpusDateRange, error) { return nil, nil }

func TestSearchService_RefreshDateRange(t *testing.T) {
	dr := &cachedRange{}
	svc := &SearchService{dateRange: dr}

	got, err := svc.DateRange(context.Background())
	if err != nil || got.Oldest != "2018-03-01" {
		t.Fatalf("DateRange = %+v, %v", got, err)
	}
	if err := svc.RefreshDateRange(context.Background()); err != nil {
		t.Fatalf("RefreshDateRange: %v", err)
	}
	if dr.invalidated != 1 {
		t.Errorf("invalidated = %d, want 1", dr.invalidated)
	}
}

func TestSearchService_RefreshDateRange_Uncached(t *testing.T) {
	svc := &SearchService{dateRange: plainRange{}}
	if err := svc.RefreshDateRange(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBatchService_Start(t *testing.T) {
	mock := &mockBatchUC{
		startFn: func(_ context.Context, req dombatch.ClassifyRequest) (dombatch.Started, error) {
			if len(req.Documents) != 1 || req.Documents[0].DocumentID != "d1" {
				t.Errorf("Documents = %+v", req.Documents)
			}
			if req.Options == nil {
				t.Error("Options should default to an empty object")
			}
			return dombatch.Started{JobID: "j1", Status: JobQueued}, nil
		},
	}
	svc := &BatchService{svc: mock}
	started, err := svc.Start(context.Background(), []Source{{ID: "d1"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.JobID != "j1" {
		t.Errorf("JobID = %q, want j1", started.JobID)
	}
}

func TestBatchService_Start_NoDocuments(t *testing.T) {
	svc := &BatchService{svc: &mockBatchUC{}}
	_, err := svc.Start(context.Background(), nil, nil)
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestBatchService_Run(t *testing.T) {
	mock := &mockBatchUC{
		startFn: func(context.Context, dombatch.ClassifyRequest) (dombatch.Started, error) {
			return dombatch.Started{JobID: "j1"}, nil
		},
		pollFn: func(_ context.Context, id string, _ batchuc.PollOptions) (dombatch.Job, error) {
			return dombatch.Job{ID: id, Status: JobCompleted}, nil
		},
		resultsFn: func(_ context.Context, id string) (dombatch.Results, error) {
			return dombatch.Results{JobID: id, Status: JobCompleted}, nil
		},
	}
	svc := &BatchService{svc: mock}
	res, err := svc.Run(context.Background(), []Source{{ID: "d1"}}, nil, PollOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.JobID != "j1" {
		t.Errorf("JobID = %q, want j1", res.JobID)
	}
}

func TestBatchService_Run_Failed(t *testing.T) {
	mock := &mockBatchUC{
		startFn: func(context.Context, dombatch.ClassifyRequest) (dombatch.Started, error) {
			return dombatch.Started{JobID: "j1"}, nil
		},
		pollFn: func(context.Context, string, batchuc.PollOptions) (dombatch.Job, error) {
			return dombatch.Job{Status: JobFailed, Error: "worker crashed"}, nil
		},
		resultsFn: func(context.Context, string) (dombatch.Results, error) {
			t.Error("results should not be fetched for a failed job")
			return dombatch.Results{}, nil
		},
	}
	svc := &BatchService{svc: mock}
	_, err := svc.Run(context.Background(), []Source{{ID: "d1"}}, nil, PollOptions{})
	if err == nil || err.Error() != "batch job j1 failed: worker crashed" {
		t.Errorf("err = %v", err)
	}
}

// --- CaseService ---

func TestCaseService_NotConfigured(t *testing.T) {
	svc := &CaseService{userID: "u1"}
	if _, err := svc.List(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("List err = %v, want ErrNotConfigured", err)
	}
	if err := svc.Delete(context.Background(), "c1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Delete err = %v, want ErrNotConfigured", err)
	}
}

func TestCaseService_ScopesToUser(t *testing.T) {
	mock := &mockCaseUC{
		createFn: func(_ context.Context, userID, name string) (domcases.Case, error) {
			if userID != "u1" {
				t.Errorf("userID = %q, want u1", userID)
			}
			return domcases.Case{ID: "c1", Name: name}, nil
		},
	}
	svc := &CaseService{userID: "u1", svc: mock}
	c, err := svc.Create(context.Background(), "State v. Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != "c1" {
		t.Errorf("ID = %q, want c1", c.ID)
	}
}

// --- AuthService ---

func TestAuthService_NotConfigured(t *testing.T) {
	svc := &AuthService{}
	if _, err := svc.SignIn(context.Background(), "a@b.co", "pw"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("SignIn err = %v, want ErrNotConfigured", err)
	}
	if _, ok := svc.Session(); ok {
		t.Error("expected no session")
	}
}

func TestAuthService_SignIn_FriendlyError(t *testing.T) {
	mock := &mockSession{
		signInFn: func(context.Context, string, string) (domsession.Session, error) {
			return domsession.Session{}, &identity.Error{StatusCode: 400, Message: "Invalid login credentials"}
		},
	}
	svc := &AuthService{mgr: mock}
	_, err := svc.SignIn(context.Background(), "a@b.co", "pw")

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want *AuthError", err)
	}
	if authErr.Message != domsession.FriendlyMessage("Invalid login credentials") {
		t.Errorf("Message = %q", authErr.Message)
	}
	if !errors.Is(err, ErrUnauthenticated) {
		t.Error("expected errors.Is(err, ErrUnauthenticated)")
	}
}

// --- observer ---

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	mock := &mockSearchUC{
		searchFn: func(context.Context, request.Params) (result.Response, error) {
			return result.Response{}, nil
		},
	}
	svc := &SearchService{svc: mock, obs: obs}
	_, _ = svc.Query(context.Background(), SearchParams{})
	_, _ = svc.Query(context.Background(), SearchParams{Size: Int(-1)})

	if got := testutil.ToFloat64(obs.metrics.calls.WithLabelValues("search", outcomeOK)); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.calls.WithLabelValues("search", outcomeInvalid)); got != 1 {
		t.Errorf("invalid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.inFlight.WithLabelValues("search")); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, outcomeOK},
		{fmt.Errorf("wrap: %w", ErrInvalidParams), outcomeInvalid},
		{ErrUnauthenticated, outcomeUnauth},
		{ErrNoDocumentURL, outcomeNotFound},
		{ErrNotConfigured, outcomeUnavailable},
		{&backend.HTTPError{StatusCode: 502}, outcomeBackend},
		{context.Canceled, outcomeCancelled},
		{errors.New("boom"), outcomeError},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.calls != second.metrics.calls {
		t.Error("expected the registered counter to be reused")
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), nil)
}
