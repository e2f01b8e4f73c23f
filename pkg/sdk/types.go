package lexsearch

import (
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
)

// Search types.
type (
	SearchParams   = request.Params
	Filters        = request.Filters
	DateRange      = request.DateRange
	SearchResponse = result.Response
	// CorpusDateRange is the oldest and newest legal date in the corpus.
	CorpusDateRange = result.DateRange
)

// Document types.
type (
	Document  = document.Document
	Metadata  = document.Metadata
	Highlight = document.Highlight
	Party     = document.Party
	Attorney  = document.Attorney
	Charge    = document.Charge
)

// Batch types.
type (
	Source         = dombatch.Source
	Job            = dombatch.Job
	JobStatus      = dombatch.Status
	JobProgress    = dombatch.Progress
	JobStarted     = dombatch.Started
	JobResults     = dombatch.Results
	JobCancelled   = dombatch.Cancelled
	PollOptions    = batchuc.PollOptions
	ClassifyResult = dombatch.Result
)

// Job states.
const (
	JobQueued          = dombatch.StatusQueued
	JobRunning         = dombatch.StatusRunning
	JobCompleted       = dombatch.StatusCompleted
	JobFailed          = dombatch.StatusFailed
	JobStatusCancelled = dombatch.StatusCancelled
)

// PollUnbounded as PollOptions.MaxAttempts polls without a ceiling.
const PollUnbounded = batchuc.PollUnbounded

// Storage, catalog, redaction, case and session types.
type (
	StoredDocument = domstorage.Document
	StorageCount   = domstorage.Count
	StorageStats   = domstorage.Stats

	FieldOptions  = domcatalog.FieldOptions
	CatalogStats  = domcatalog.Stats
	MetadataField = domcatalog.Field

	AnalyzeResult     = domredaction.AnalyzeResult
	RedactResult      = domredaction.RedactResult
	RedactionAnalysis = domredaction.Analysis

	Case         = domcases.Case
	CaseDocument = domcases.Document

	Session = domsession.Session
	User    = domsession.User
)

// Int returns a pointer to v, for optional SearchParams fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional SearchParams fields.
func Bool(v bool) *bool { return &v }
