package lexsearch

import (
	"context"
	"encoding/json"
	"io"

	dombatch "github.com/kailas-cloud/lexsearch/internal/domain/batch"
	domcases "github.com/kailas-cloud/lexsearch/internal/domain/cases"
	domcatalog "github.com/kailas-cloud/lexsearch/internal/domain/catalog"
	"github.com/kailas-cloud/lexsearch/internal/domain/document"
	domredaction "github.com/kailas-cloud/lexsearch/internal/domain/redaction"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/request"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/lexsearch/internal/domain/session"
	domstorage "github.com/kailas-cloud/lexsearch/internal/domain/storage"
	batchuc "github.com/kailas-cloud/lexsearch/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/lexsearch/internal/usecase/health"
)

// Internal interfaces so services can be swapped in tests.

type searchUseCase interface {
	Search(ctx context.Context, params request.Params) (result.Response, error)
	SearchRanked(ctx context.Context, params request.Params) (result.Response, error)
}

type dateRangeSource interface {
	GlobalDateRange(ctx context.Context) (*result.DateRange, error)
}

type batchUseCase interface {
	Start(ctx context.Context, req dombatch.ClassifyRequest) (dombatch.Started, error)
	Status(ctx context.Context, jobID string) (dombatch.Job, error)
	Results(ctx context.Context, jobID string) (dombatch.Results, error)
	Cancel(ctx context.Context, jobID string) (dombatch.Cancelled, error)
	Poll(ctx context.Context, jobID string, opts batchuc.PollOptions) (dombatch.Job, error)
}

type storageUseCase interface {
	List(ctx context.Context) ([]domstorage.Document, error)
	Count(ctx context.Context) (domstorage.Count, error)
	Stats(ctx context.Context) (domstorage.Stats, error)
	SearchByName(ctx context.Context, pattern string) []domstorage.Document
	FileURL(path string) string
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) bool
}

type documentUseCase interface {
	Categorise(ctx context.Context, filename string, r io.Reader) (json.RawMessage, error)
	UpdateMetadata(ctx context.Context, id string, metadata any) (document.Document, error)
	Get(ctx context.Context, id string) (document.Document, error)
	ResolveURLWithSearch(ctx context.Context, d *document.Document) (string, error)
	Download(ctx context.Context, d *document.Document) (io.ReadCloser, error)
}

type redactionUseCase interface {
	Analyze(ctx context.Context, filename string, r io.Reader) (domredaction.AnalyzeResult, error)
	Redact(ctx context.Context, documentID string, apply bool) (domredaction.RedactResult, error)
	Analysis(ctx context.Context, documentID string) *domredaction.Analysis
}

type catalogUseCase interface {
	DocumentTypes(ctx context.Context) (map[string]int, error)
	LegalTags(ctx context.Context) ([]string, error)
	FieldValues(ctx context.Context, field, search string, limit int) ([]string, error)
	FieldOptions(ctx context.Context) (domcatalog.FieldOptions, error)
	DocumentStats(ctx context.Context) (domcatalog.Stats, error)
	MetadataFields(ctx context.Context) ([]domcatalog.Field, error)
	Invalidate()
}

type caseUseCase interface {
	Create(ctx context.Context, userID, name string) (domcases.Case, error)
	Get(ctx context.Context, userID, id string) (domcases.Case, error)
	List(ctx context.Context, userID string) ([]domcases.Case, error)
	Rename(ctx context.Context, userID, id, name string) (domcases.Case, error)
	Delete(ctx context.Context, userID, id string) error
	AddDocument(ctx context.Context, userID, caseID, documentID, notes string) (domcases.Document, error)
	Documents(ctx context.Context, userID, caseID string) ([]domcases.Document, error)
	RemoveDocument(ctx context.Context, userID, caseID, documentID string) error
	UpdateNotes(ctx context.Context, userID, caseID, documentID, notes string) (domcases.Document, error)
}

type sessionManager interface {
	SignIn(ctx context.Context, email, password string) (domsession.Session, error)
	Restore(s domsession.Session) error
	Session() (domsession.Session, bool)
	Token(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
