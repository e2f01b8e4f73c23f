package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	logpkg "github.com/kailas-cloud/lexsearch/internal/logger"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
	batchuc "github.com/kailas-cloud/lexsearch/internal/usecase/batch"
	casesuc "github.com/kailas-cloud/lexsearch/internal/usecase/cases"
	cataloguc "github.com/kailas-cloud/lexsearch/internal/usecase/catalog"
	documentsuc "github.com/kailas-cloud/lexsearch/internal/usecase/documents"
	healthuc "github.com/kailas-cloud/lexsearch/internal/usecase/health"
	redactionuc "github.com/kailas-cloud/lexsearch/internal/usecase/redaction"
	searchuc "github.com/kailas-cloud/lexsearch/internal/usecase/search"
	storageuc "github.com/kailas-cloud/lexsearch/internal/usecase/storage"
)

// Request body limits.
const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 64 << 20
)

// Error codes rendered in the "error" field.
const (
	codeBadRequest      = "bad_request"
	codeInvalidParams   = "invalid_params"
	codeUnauthenticated = "unauthenticated"
	codeNotFound        = "not_found"
	codeNoDocumentURL   = "no_document_url"
	codeBadGateway      = "invalid_backend_response"
	codeBackendError    = "backend_error"
	codeNotConfigured   = "not_configured"
	codeInternal        = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Services are the use cases the BFF exposes. Cases, Users and Auth may be
// nil when their backing store or provider is not configured.
type Services struct {
	Search    *searchuc.Service
	DateRange DateRangeSource
	Catalog   *cataloguc.Service
	Batch     *batchuc.Service
	Storage   *storageuc.Service
	Documents *documentsuc.Service
	Redaction *redactionuc.Service
	Cases     *casesuc.Service
	Users     UserResolver
	Auth      IdentityProvider
	Health    *healthuc.Service
}

// Server is the lexsearch BFF HTTP API.
type Server struct {
	svc           Services
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if svc.DateRange == nil && svc.Search != nil {
		svc.DateRange = svc.Search
	}
	s := &Server{svc: svc, logger: logger.With(zap.String("component", "http"))}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidCaseName, http.StatusBadRequest, codeInvalidParams),
		sentinelHandler(domain.ErrInvalidParams, http.StatusBadRequest, codeInvalidParams),
		sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized, codeUnauthenticated),
		sentinelHandler(domain.ErrNoDocumentURL, http.StatusNotFound, codeNoDocumentURL),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrNotConfigured, http.StatusNotImplemented, codeNotConfigured),
		sentinelHandler(domain.ErrInvalidResponseShape, http.StatusBadGateway, codeBadGateway),
		sentinelHandler(domain.ErrInvalidResponse, http.StatusBadGateway, codeBadGateway),
		backendErrorHandler,
	}
	return s
}

// Routes registers every BFF route on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Get("/date-range", s.DateRange)
		r.Post("/cache/invalidate", s.InvalidateCaches)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/document-types", s.DocumentTypes)
			r.Get("/legal-tags", s.LegalTags)
			r.Get("/field-options", s.FieldOptions)
			r.Get("/document-stats", s.DocumentStats)
			r.Get("/metadata-fields", s.MetadataFields)
			r.Get("/metadata-fields/{field}", s.FieldValues)
		})

		r.Route("/batch", func(r chi.Router) {
			r.Post("/", s.StartBatch)
			r.Get("/{id}", s.BatchStatus)
			r.Get("/{id}/results", s.BatchResults)
			r.Delete("/{id}", s.CancelBatch)
		})

		r.Route("/storage", func(r chi.Router) {
			r.Get("/", s.ListStorage)
			r.Get("/count", s.CountStorage)
			r.Get("/stats", s.StorageStats)
			r.Get("/search", s.SearchStorage)
			r.Get("/files/*", s.DownloadFile)
			r.Head("/files/*", s.FileExists)
		})

		r.Post("/documents/categorise", s.Categorise)
		r.Route("/documents/{id}", func(r chi.Router) {
			r.Get("/", s.GetDocument)
			r.Put("/metadata", s.UpdateMetadata)
			r.Get("/url", s.DocumentURL)
			r.Get("/download", s.DownloadDocument)
			r.Get("/redactions", s.RedactionAnalysis)
			r.Post("/redact", s.Redact)
		})
		r.Post("/redactions/analyze", s.AnalyzeRedactions)

		r.Route("/cases", func(r chi.Router) {
			r.Use(s.requireCases)
			r.Use(s.requireUser)
			r.Get("/", s.ListCases)
			r.Post("/", s.CreateCase)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetCase)
				r.Patch("/", s.RenameCase)
				r.Delete("/", s.DeleteCase)
				r.Get("/documents", s.CaseDocuments)
				r.Post("/documents", s.AddCaseDocument)
				r.Patch("/documents/{documentID}", s.UpdateCaseNotes)
				r.Delete("/documents/{documentID}", s.RemoveCaseDocument)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/login", s.Login)
			r.Post("/refresh", s.Refresh)
			r.Post("/logout", s.Logout)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// backendErrorHandler reports any other classified backend failure as a bad
// gateway with the backend's own message.
func backendErrorHandler(w http.ResponseWriter, err error) bool {
	var opErr *backend.OperationError
	if !errors.As(err, &opErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, codeBackendError, opErr.Message)
	return true
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request failed", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

func (s *Server) requireCases(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.svc.Cases == nil {
			s.handleError(w, r, fmt.Errorf("cases: %w", domain.ErrNotConfigured))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.svc.Auth == nil {
			s.handleError(w, r, fmt.Errorf("identity provider: %w", domain.ErrNotConfigured))
			return
		}
		next.ServeHTTP(w, r)
	})
}
