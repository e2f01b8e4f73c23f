package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	"github.com/kailas-cloud/lexsearch/internal/domain/document"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
)

// rawResponse is a search response body before its shape is known.
type rawResponse struct {
	Success *bool            `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *domain.APIError `json:"error"`

	root payload
	data *payload
}

type payload struct {
	TotalHits    json.RawMessage `json:"total_hits"`
	Total        json.RawMessage `json:"total"`
	Documents    json.RawMessage `json:"documents"`
	Aggregations map[string]any  `json:"aggregations"`
}

// shape recognizes one backend response layout and projects it.
type shape struct {
	name    string
	match   func(r *rawResponse) bool
	project func(r *rawResponse, now time.Time) (result.Response, error)
}

// shapes are tried in order; the first match wins.
var shapes = []shape{
	{
		name: "envelope",
		match: func(r *rawResponse) bool {
			return r.Success != nil && *r.Success && r.data != nil && isArray(r.data.Documents)
		},
		project: func(r *rawResponse, now time.Time) (result.Response, error) {
			return projectPayload(r.data, r.data.TotalHits, now)
		},
	},
	{
		name: "partial envelope",
		match: func(r *rawResponse) bool {
			return r.Success == nil && r.data != nil && isArray(r.data.Documents)
		},
		project: func(r *rawResponse, now time.Time) (result.Response, error) {
			return projectPayload(r.data, r.data.TotalHits, now)
		},
	},
	{
		name: "root documents",
		match: func(r *rawResponse) bool {
			return isArray(r.root.Documents) && isAbsent(r.root.TotalHits)
		},
		project: func(r *rawResponse, now time.Time) (result.Response, error) {
			return projectPayload(&r.root, r.root.Total, now)
		},
	},
	{
		name: "bare result",
		match: func(r *rawResponse) bool {
			return isArray(r.root.Documents) && !isAbsent(r.root.TotalHits)
		},
		project: func(r *rawResponse, now time.Time) (result.Response, error) {
			return projectPayload(&r.root, r.root.TotalHits, now)
		},
	},
}

// Normalize converts any recognized search response body into the canonical
// response. An envelope reporting success:false returns its error object.
func Normalize(body []byte, now time.Time) (result.Response, error) {
	r, err := parseRaw(body)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrInvalidResponseShape, err)
	}
	if r.Success != nil && !*r.Success && r.Error != nil {
		return result.Response{}, r.Error
	}
	for _, s := range shapes {
		if !s.match(r) {
			continue
		}
		resp, err := s.project(r, now)
		if err != nil {
			return result.Response{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidResponseShape, s.name, err)
		}
		return resp, nil
	}
	return result.Response{}, domain.ErrInvalidResponseShape
}

func parseRaw(body []byte) (*rawResponse, error) {
	var r rawResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &r.root); err != nil {
		return nil, err
	}
	if isObject(r.Data) {
		var p payload
		if err := json.Unmarshal(r.Data, &p); err != nil {
			return nil, err
		}
		r.data = &p
	}
	return &r, nil
}

func projectPayload(p *payload, total json.RawMessage, now time.Time) (result.Response, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(p.Documents, &items); err != nil {
		return result.Response{}, fmt.Errorf("documents: %w", err)
	}
	hits := make([]document.Document, 0, len(items))
	for i, item := range items {
		doc, err := projectDocument(item, now)
		if err != nil {
			return result.Response{}, fmt.Errorf("document %d: %w", i, err)
		}
		hits = append(hits, doc)
	}
	n, ok := coerceCount(total)
	if !ok {
		n = len(hits)
	}
	return result.Response{Total: n, Hits: hits, Aggregations: p.Aggregations}, nil
}

// hitWrapper is the backend's per-hit envelope around a stored document.
type hitWrapper struct {
	ID         string          `json:"id"`
	Score      *float64        `json:"score"`
	Document   json.RawMessage `json:"document"`
	Highlights json.RawMessage `json:"highlights"`
	Metadata   json.RawMessage `json:"metadata"`
}

// legacyFields are the flat metadata fields older documents carry at top level.
type legacyFields struct {
	DocumentName             string               `json:"document_name"`
	Subject                  string               `json:"subject"`
	Summary                  string               `json:"summary"`
	Status                   string               `json:"status"`
	Timestamp                string               `json:"timestamp"`
	CaseName                 string               `json:"case_name"`
	CaseNumber               string               `json:"case_number"`
	Author                   string               `json:"author"`
	Judge                    *document.Judge      `json:"judge"`
	Court                    *document.CourtInfo  `json:"court"`
	LegalTags                []string             `json:"legal_tags"`
	AIClassified             bool                 `json:"ai_classified"`
	Authorities              []document.Authority `json:"authorities"`
	Confidence               float64              `json:"confidence"`
	Language                 string               `json:"language"`
	ProcessedAt              string               `json:"processed_at"`
	WordCount                int                  `json:"word_count"`
	PageCount                int                  `json:"page_count"`
	Pages                    int                  `json:"pages"`
	FileType                 string               `json:"file_type"`
	ClassificationConfidence float64              `json:"classification_confidence"`
	ExtractionMethod         string               `json:"extraction_method"`
	RedactionScore           float64              `json:"redaction_score"`
	HasRedactions            bool                 `json:"has_redactions"`
	SensitiveTerms           []string             `json:"sensitive_terms"`
}

// projectDocument lifts a wrapped hit into a canonical document and
// synthesizes metadata for legacy flat documents.
func projectDocument(item json.RawMessage, now time.Time) (document.Document, error) {
	var w hitWrapper
	if err := json.Unmarshal(item, &w); err != nil {
		return document.Document{}, err
	}

	base := item
	wrapped := isObject(w.Document)
	if wrapped {
		base = w.Document
	}

	var doc document.Document
	if err := json.Unmarshal(base, &doc); err != nil {
		return document.Document{}, err
	}

	if wrapped {
		if w.ID != "" {
			doc.ID = w.ID
		}
		if w.Score != nil {
			doc.Score = *w.Score
		}
		doc.Highlight = nil
		if !isAbsent(w.Highlights) {
			doc.Highlight = &document.Highlight{Text: flattenHighlights(w.Highlights)}
		}
		var inner hitWrapper
		if err := json.Unmarshal(base, &inner); err != nil {
			return document.Document{}, err
		}
		w.Metadata = inner.Metadata
	}

	if isAbsent(w.Metadata) {
		var flat legacyFields
		if err := json.Unmarshal(base, &flat); err != nil {
			return document.Document{}, err
		}
		if flat.DocumentName != "" {
			doc.Metadata = synthesizeMetadata(&flat, now)
		}
	}
	return doc, nil
}

func synthesizeMetadata(f *legacyFields, now time.Time) document.Metadata {
	m := document.Metadata{
		DocumentName:             f.DocumentName,
		Subject:                  f.Subject,
		Summary:                  f.Summary,
		Status:                   f.Status,
		Timestamp:                f.Timestamp,
		CaseName:                 f.CaseName,
		CaseNumber:               f.CaseNumber,
		Author:                   f.Author,
		Judge:                    f.Judge,
		Court:                    f.Court,
		LegalTags:                f.LegalTags,
		AIClassified:             f.AIClassified,
		Authorities:              f.Authorities,
		Confidence:               f.Confidence,
		Language:                 f.Language,
		ProcessedAt:              f.ProcessedAt,
		WordCount:                f.WordCount,
		PageCount:                f.PageCount,
		FileType:                 f.FileType,
		ClassificationConfidence: f.ClassificationConfidence,
		ExtractionMethod:         f.ExtractionMethod,
		RedactionScore:           f.RedactionScore,
		HasRedactions:            f.HasRedactions,
		SensitiveTerms:           f.SensitiveTerms,
	}
	if m.PageCount == 0 {
		m.PageCount = f.Pages
	}
	if m.ProcessedAt == "" {
		m.ProcessedAt = now.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	return m
}

// flattenHighlights joins all fragment lists in field order.
func flattenHighlights(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var out []string
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return out
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return out
		}
		switch frags := v.(type) {
		case string:
			out = append(out, frags)
		case []any:
			for _, f := range frags {
				if s, ok := f.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// coerceCount reads a count sent as a JSON number or numeric string.
func coerceCount(raw json.RawMessage) (int, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

func firstByte(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isArray(raw json.RawMessage) bool  { return firstByte(raw) == '[' }
func isObject(raw json.RawMessage) bool { return firstByte(raw) == '{' }

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
