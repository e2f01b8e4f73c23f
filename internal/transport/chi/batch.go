package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	dombatch "github.com/kailas-cloud/lexsearch/internal/domain/batch"
)

type batchDocument struct {
	DocumentID   string `json:"document_id"`
	DocumentPath string `json:"document_path"`
	Text         string `json:"text"`
}

type startBatchRequest struct {
	Documents []batchDocument `json:"documents"`
	Options   map[string]any  `json:"options"`
}

// StartBatch handles POST /api/batch.
func (s *Server) StartBatch(w http.ResponseWriter, r *http.Request) {
	var body startBatchRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sources := make([]dombatch.Source, len(body.Documents))
	for i, d := range body.Documents {
		sources[i] = dombatch.Source{ID: d.DocumentID, Path: d.DocumentPath, Text: d.Text}
	}
	req, err := dombatch.NewClassifyRequest(sources, body.Options)
	if err != nil {
		s.handleError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidParams, err))
		return
	}

	started, err := s.svc.Batch.Start(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, started)
}

// BatchStatus handles GET /api/batch/{id}.
func (s *Server) BatchStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.Batch.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// BatchResults handles GET /api/batch/{id}/results.
func (s *Server) BatchResults(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Batch.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CancelBatch handles DELETE /api/batch/{id}.
func (s *Server) CancelBatch(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Batch.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
