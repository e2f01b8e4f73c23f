package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type caseNameRequest struct {
	Name string `json:"case_name"`
}

type addDocumentRequest struct {
	DocumentID string `json:"document_id"`
	Notes      string `json:"notes"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// ListCases handles GET /api/cases.
func (s *Server) ListCases(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Cases.List(r.Context(), userID(r))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateCase handles POST /api/cases.
func (s *Server) CreateCase(w http.ResponseWriter, r *http.Request) {
	var body caseNameRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	c, err := s.svc.Cases.Create(r.Context(), userID(r), body.Name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GetCase handles GET /api/cases/{id}.
func (s *Server) GetCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Cases.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RenameCase handles PATCH /api/cases/{id}.
func (s *Server) RenameCase(w http.ResponseWriter, r *http.Request) {
	var body caseNameRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	c, err := s.svc.Cases.Rename(r.Context(), userID(r), chi.URLParam(r, "id"), body.Name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCase handles DELETE /api/cases/{id}.
func (s *Server) DeleteCase(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Cases.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CaseDocuments handles GET /api/cases/{id}/documents.
func (s *Server) CaseDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.svc.Cases.Documents(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// AddCaseDocument handles POST /api/cases/{id}/documents. Adding a linked
// document again returns the existing link.
func (s *Server) AddCaseDocument(w http.ResponseWriter, r *http.Request) {
	var body addDocumentRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	doc, err := s.svc.Cases.AddDocument(r.Context(), userID(r), chi.URLParam(r, "id"), body.DocumentID, body.Notes)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// UpdateCaseNotes handles PATCH /api/cases/{id}/documents/{documentID}.
func (s *Server) UpdateCaseNotes(w http.ResponseWriter, r *http.Request) {
	var body notesRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	doc, err := s.svc.Cases.UpdateNotes(r.Context(), userID(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "documentID"), body.Notes)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// RemoveCaseDocument handles DELETE /api/cases/{id}/documents/{documentID}.
func (s *Server) RemoveCaseDocument(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Cases.RemoveDocument(r.Context(), userID(r), chi.URLParam(r, "id"), chi.URLParam(r, "documentID"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
