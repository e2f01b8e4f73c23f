package request

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// Search parameter defaults and limits.
const (
	DefaultSize      = 20
	MaxSize          = 1000
	MaxQueryLength   = 4096
	DefaultSortBy    = "relevance"
	DefaultSortOrder = "desc"
	// CreatedAtField is the one date field stored outside metadata.
	CreatedAtField = "created_at"
)

// OneOrMany is a string list that also accepts a single JSON string.
type OneOrMany []string

// UnmarshalJSON accepts "x" as well as ["x", "y"].
func (o *OneOrMany) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = OneOrMany{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*o = list
	return nil
}

// DateRange bounds a date filter. Start/End are accepted by the backend as aliases.
type DateRange struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Filters are structured per-field filters forwarded to the backend.
type Filters struct {
	DocType       []string       `json:"doc_type,omitempty"`
	Court         []string       `json:"court,omitempty"`
	Judge         []string       `json:"judge,omitempty"`
	Author        []string       `json:"author,omitempty"`
	Status        []string       `json:"status,omitempty"`
	LegalTags     []string       `json:"legal_tags,omitempty"`
	DateRange     *DateRange     `json:"date_range,omitempty"`
	CustomFilters map[string]any `json:"custom_filters,omitempty"`
	DateField     string         `json:"date_field,omitempty"`
}

// Params describes a search as the UI expresses it. Pointer fields distinguish
// "not given" from a zero value.
type Params struct {
	Query             string     `json:"query,omitempty"`
	DocType           string     `json:"doc_type,omitempty"`
	CaseNumber        string     `json:"case_number,omitempty"`
	CaseName          string     `json:"case_name,omitempty"`
	Judge             OneOrMany  `json:"judge,omitempty"`
	Court             OneOrMany  `json:"court,omitempty"`
	Author            string     `json:"author,omitempty"`
	Status            string     `json:"status,omitempty"`
	LegalTags         []string   `json:"legal_tags,omitempty"`
	LegalTagsMatchAll bool       `json:"legal_tags_match_all,omitempty"`
	DateRange         *DateRange `json:"date_range,omitempty"`
	// DateFieldType selects the date the range applies to: created_at or a metadata date.
	DateFieldType     string   `json:"date_field_type,omitempty"`
	Size              *int     `json:"size,omitempty"`
	From              *int     `json:"from,omitempty"`
	SortBy            string   `json:"sort_by,omitempty"`
	SortOrder         string   `json:"sort_order,omitempty"`
	IncludeHighlights *bool    `json:"include_highlights,omitempty"`
	FuzzySearch       bool     `json:"fuzzy_search,omitempty"`
	Filters           *Filters `json:"filters,omitempty"`

	// Legacy pagination and aliases.
	Page     *int     `json:"page,omitempty"`
	Limit    *int     `json:"limit,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	UseFuzzy bool     `json:"use_fuzzy,omitempty"`
}

// Validate rejects parameters the backend would refuse.
func (p *Params) Validate() error {
	if len(p.Query) > MaxQueryLength {
		return fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidParams, MaxQueryLength)
	}
	for name, v := range map[string]*int{"size": p.Size, "limit": p.Limit, "from": p.From, "page": p.Page} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidParams, name)
		}
	}
	if p.Size != nil && *p.Size > MaxSize {
		return fmt.Errorf("%w: size must not exceed %d", domain.ErrInvalidParams, MaxSize)
	}
	switch p.SortOrder {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: sort_order must be asc or desc", domain.ErrInvalidParams)
	}
	return nil
}

// Wire is the backend search request body.
type Wire struct {
	Query             string     `json:"query,omitempty"`
	DocType           string     `json:"doc_type,omitempty"`
	CaseNumber        string     `json:"case_number,omitempty"`
	CaseName          string     `json:"case_name,omitempty"`
	Judge             []string   `json:"judge,omitempty"`
	Court             []string   `json:"court,omitempty"`
	Author            string     `json:"author,omitempty"`
	Status            string     `json:"status,omitempty"`
	LegalTags         []string   `json:"legal_tags,omitempty"`
	LegalTagsMatchAll bool       `json:"legal_tags_match_all"`
	DateRange         *DateRange `json:"date_range,omitempty"`
	Size              int        `json:"size"`
	From              int        `json:"from"`
	SortBy            string     `json:"sort_by"`
	SortOrder         string     `json:"sort_order"`
	IncludeHighlights bool       `json:"include_highlights"`
	FuzzySearch       bool       `json:"fuzzy_search"`
	Filters           *Filters   `json:"filters,omitempty"`
}

// Transform maps UI parameters to the backend request body. Unset fields are
// left zero so omitempty drops them from the payload.
func Transform(p Params) Wire {
	w := Wire{
		Query:             p.Query,
		DocType:           p.DocType,
		CaseNumber:        p.CaseNumber,
		CaseName:          p.CaseName,
		Judge:             p.Judge,
		Court:             p.Court,
		Author:            p.Author,
		Status:            p.Status,
		LegalTags:         p.LegalTags,
		LegalTagsMatchAll: p.LegalTagsMatchAll,
		DateRange:         p.DateRange,
		Size:              resolveSize(p),
		SortBy:            p.SortBy,
		SortOrder:         p.SortOrder,
		IncludeHighlights: p.IncludeHighlights == nil || *p.IncludeHighlights,
		FuzzySearch:       p.FuzzySearch || p.UseFuzzy,
	}
	if len(w.LegalTags) == 0 {
		w.LegalTags = p.Tags
	}
	if w.SortBy == "" {
		w.SortBy = DefaultSortBy
	}
	if w.SortOrder == "" {
		w.SortOrder = DefaultSortOrder
	}

	switch {
	case p.From != nil:
		w.From = *p.From
	case p.Page != nil && *p.Page > 1:
		w.From = (*p.Page - 1) * w.Size
	}

	if p.Filters != nil {
		f := *p.Filters
		w.Filters = &f
	}
	if p.DateFieldType != "" {
		if w.Filters == nil {
			w.Filters = &Filters{}
		}
		w.Filters.DateField = DateFieldPath(p.DateFieldType)
	}
	return w
}

// DateFieldPath maps a logical date field to its storage path.
func DateFieldPath(field string) string {
	if field == CreatedAtField {
		return CreatedAtField
	}
	return "metadata." + field
}

func resolveSize(p Params) int {
	if p.Size != nil && *p.Size > 0 {
		return *p.Size
	}
	if p.Limit != nil && *p.Limit > 0 {
		return *p.Limit
	}
	return DefaultSize
}
