package chi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	logpkg "github.com/kailas-cloud/lexsearch/internal/logger"
)

// ListStorage handles GET /api/storage.
func (s *Server) ListStorage(w http.ResponseWriter, r *http.Request) {
	docs, err := s.svc.Storage.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// CountStorage handles GET /api/storage/count.
func (s *Server) CountStorage(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.Storage.Count(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// StorageStats handles GET /api/storage/stats.
func (s *Server) StorageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Storage.Stats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// SearchStorage handles GET /api/storage/search?name=. Lookup failures yield
// an empty list.
func (s *Server) SearchStorage(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := runtime.BindQueryParameter("form", true, true, "name", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidParams, "Invalid format for parameter name: "+err.Error())
		return
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, codeInvalidParams, "name is required")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Storage.SearchByName(r.Context(), name))
}

// DownloadFile handles GET /api/storage/files/*.
func (s *Server) DownloadFile(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	if p == "" {
		writeError(w, http.StatusBadRequest, codeInvalidParams, "file path is required")
		return
	}
	rc, err := s.svc.Storage.Download(r.Context(), p)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.stream(w, r, rc, path.Base(p))
}

// FileExists handles HEAD /api/storage/files/*.
func (s *Server) FileExists(w http.ResponseWriter, r *http.Request) {
	if s.svc.Storage.Exists(r.Context(), chi.URLParam(r, "*")) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// Categorise handles POST /api/documents/categorise (multipart field "file").
func (s *Server) Categorise(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := s.svc.Documents.Categorise(r.Context(), header.Filename, file)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res)
}

// GetDocument handles GET /api/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// UpdateMetadata handles PUT /api/documents/{id}/metadata.
func (s *Server) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var metadata map[string]any
	if !decodeJSON(w, r, &metadata) {
		return
	}
	doc, err := s.svc.Documents.UpdateMetadata(r.Context(), chi.URLParam(r, "id"), metadata)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type urlResponse struct {
	URL string `json:"url"`
}

// DocumentURL handles GET /api/documents/{id}/url.
func (s *Server) DocumentURL(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	u, err := s.svc.Documents.ResolveURLWithSearch(r.Context(), &doc)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{URL: u})
}

// DownloadDocument handles GET /api/documents/{id}/download.
func (s *Server) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	rc, err := s.svc.Documents.Download(r.Context(), &doc)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	name := doc.FileName
	if name == "" {
		name = doc.ID
	}
	s.stream(w, r, rc, name)
}

type analysisResponse struct {
	Analysis any `json:"redaction_analysis"`
}

// RedactionAnalysis handles GET /api/documents/{id}/redactions. A missing
// analysis is reported as null.
func (s *Server) RedactionAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := domain.CheckPathID("document", id); err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := analysisResponse{}
	if a := s.svc.Redaction.Analysis(r.Context(), id); a != nil {
		resp.Analysis = a
	}
	writeJSON(w, http.StatusOK, resp)
}

type redactRequest struct {
	ApplyRedactions bool `json:"apply_redactions"`
}

// Redact handles POST /api/documents/{id}/redact.
func (s *Server) Redact(w http.ResponseWriter, r *http.Request) {
	var body redactRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := s.svc.Redaction.Redact(r.Context(), chi.URLParam(r, "id"), body.ApplyRedactions)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AnalyzeRedactions handles POST /api/redactions/analyze (multipart field "file").
func (s *Server) AnalyzeRedactions(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := s.svc.Redaction.Analyze(r.Context(), header.Filename, file)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest,
				fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit))
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "multipart field \"file\" is required")
		return nil, nil, false
	}
	return file, header, true
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request, rc io.ReadCloser, filename string) {
	defer rc.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	if cd := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logpkg.FromContext(r.Context(), s.logger).Warn("download interrupted", zap.Error(err))
	}
}
