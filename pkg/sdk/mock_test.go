package lexsearch

import (
	"context"

	dombatch "github.com/kailas-cloud/lexsearch/internal/domain/batch"
	domcases "github.com/kailas-cloud/lexsearch/internal/domain/cases"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/request"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/lexsearch/internal/domain/session"
	batchuc "github.com/kailas-cloud/lexsearch/internal/usecase/batch"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, p request.Params) (result.Response, error)
	rankedFn func(ctx context.Context, p request.Params) (result.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, p request.Params) (result.Response, error) {
	return m.searchFn(ctx, p)
}

func (m *mockSearchUC) SearchRanked(ctx context.Context, p request.Params) (result.Response, error) {
	return m.rankedFn(ctx, p)
}

// --- batchUseCase mock ---

type mockBatchUC struct {
	startFn   func(ctx context.Context, req dombatch.ClassifyRequest) (dombatch.Started, error)
	statusFn  func(ctx context.Context, id string) (dombatch.Job, error)
	resultsFn func(ctx context.Context, id string) (dombatch.Results, error)
	cancelFn  func(ctx context.Context, id string) (dombatch.Cancelled, error)
	pollFn    func(ctx context.Context, id string, opts batchuc.PollOptions) (dombatch.Job, error)
}

func (m *mockBatchUC) Start(ctx context.Context, req dombatch.ClassifyRequest) (dombatch.Started, error) {
	return m.startFn(ctx, req)
}

func (m *mockBatchUC) Status(ctx context.Context, id string) (dombatch.Job, error) {
	return m.statusFn(ctx, id)
}

func (m *mockBatchUC) Results(ctx context.Context, id string) (dombatch.Results, error) {
	return m.resultsFn(ctx, id)
}

func (m *mockBatchUC) Cancel(ctx context.Context, id string) (dombatch.Cancelled, error) {
	return m.cancelFn(ctx, id)
}

func (m *mockBatchUC) Poll(ctx context.Context, id string, opts batchuc.PollOptions) (dombatch.Job, error) {
	return m.pollFn(ctx, id, opts)
}

// --- caseUseCase mock ---

type mockCaseUC struct {
	caseUseCase // unimplemented methods panic
	createFn    func(ctx context.Context, userID, name string) (domcases.Case, error)
	listFn      func(ctx context.Context, userID string) ([]domcases.Case, error)
}

func (m *mockCaseUC) Create(ctx context.Context, userID, name string) (domcases.Case, error) {
	return m.createFn(ctx, userID, name)
}

func (m *mockCaseUC) List(ctx context.Context, userID string) ([]domcases.Case, error) {
	return m.listFn(ctx, userID)
}

// --- sessionManager mock ---

type mockSession struct {
	sessionManager
	signInFn func(ctx context.Context, email, password string) (domsession.Session, error)
}

func (m *mockSession) SignIn(ctx context.Context, email, password string) (domsession.Session, error) {
	return m.signInFn(ctx, email, password)
}
