package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/lexsearch/internal/domain/search/request"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
)

// Search handles POST /api/search. ?rank=true re-orders hits by legal importance.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var rank bool
	if err := runtime.BindQueryParameter("form", true, false, "rank", r.URL.Query(), &rank); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter rank: "+err.Error())
		return
	}

	var params request.Params
	if !decodeJSON(w, r, &params) {
		return
	}
	if err := params.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	var (
		resp result.Response
		err  error
	)
	if rank {
		resp, err = s.svc.Search.SearchRanked(r.Context(), params)
	} else {
		resp, err = s.svc.Search.Search(r.Context(), params)
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type dateRangeResponse struct {
	DateRange *result.DateRange `json:"date_range"`
}

// DateRange handles GET /api/date-range. An empty corpus yields a null range.
func (s *Server) DateRange(w http.ResponseWriter, r *http.Request) {
	dr, err := s.svc.DateRange.GlobalDateRange(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dateRangeResponse{DateRange: dr})
}

// InvalidateCaches handles POST /api/cache/invalidate. It drops the catalog
// entries and, when cached, the corpus date range.
func (s *Server) InvalidateCaches(w http.ResponseWriter, r *http.Request) {
	s.svc.Catalog.Invalidate()
	if inv, ok := s.svc.DateRange.(invalidator); ok {
		if err := inv.Invalidate(r.Context()); err != nil {
			s.handleError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// DocumentTypes handles GET /api/catalog/document-types.
func (s *Server) DocumentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.svc.Catalog.DocumentTypes(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// LegalTags handles GET /api/catalog/legal-tags.
func (s *Server) LegalTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.Catalog.LegalTags(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// FieldOptions handles GET /api/catalog/field-options.
func (s *Server) FieldOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.svc.Catalog.FieldOptions(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// DocumentStats handles GET /api/catalog/document-stats.
func (s *Server) DocumentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Catalog.DocumentStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MetadataFields handles GET /api/catalog/metadata-fields.
func (s *Server) MetadataFields(w http.ResponseWriter, r *http.Request) {
	fields, err := s.svc.Catalog.MetadataFields(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// FieldValues handles GET /api/catalog/metadata-fields/{field}?search=&limit=.
func (s *Server) FieldValues(w http.ResponseWriter, r *http.Request) {
	var (
		search string
		limit  int
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "search", q, &search); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter search: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter limit: "+err.Error())
		return
	}

	values, err := s.svc.Catalog.FieldValues(r.Context(), chi.URLParam(r, "field"), search, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}
