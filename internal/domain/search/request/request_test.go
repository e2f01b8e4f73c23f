package request

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func TestTransform_Defaults(t *testing.T) {
	w := Transform(Params{})
	if w.Size != DefaultSize {
		t.Errorf("Size = %d, want %d", w.Size, DefaultSize)
	}
	if w.From != 0 {
		t.Errorf("From = %d, want 0", w.From)
	}
	if w.SortBy != "relevance" || w.SortOrder != "desc" {
		t.Errorf("sort = %q %q", w.SortBy, w.SortOrder)
	}
	if !w.IncludeHighlights {
		t.Error("IncludeHighlights should default to true")
	}
	if w.FuzzySearch || w.LegalTagsMatchAll {
		t.Error("fuzzy and match-all should default to false")
	}
	if w.Filters != nil {
		t.Errorf("Filters = %+v, want nil", w.Filters)
	}
}

func TestTransform_PageToFrom(t *testing.T) {
	w := Transform(Params{Page: intp(2), Size: intp(10)})
	if w.From != 10 {
		t.Errorf("From = %d, want 10", w.From)
	}
}

func TestTransform_ExplicitFromWins(t *testing.T) {
	w := Transform(Params{From: intp(5), Page: intp(2), Size: intp(10)})
	if w.From != 5 {
		t.Errorf("From = %d, want 5", w.From)
	}
	w = Transform(Params{From: intp(0), Page: intp(3), Size: intp(10)})
	if w.From != 0 {
		t.Errorf("From = %d, want explicit 0", w.From)
	}
}

func TestTransform_SizeResolution(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want int
	}{
		{"size", Params{Size: intp(7), Limit: intp(3)}, 7},
		{"limit", Params{Limit: intp(3)}, 3},
		{"default", Params{}, 20},
		{"zero size falls through", Params{Size: intp(0), Limit: intp(4)}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transform(tt.p).Size; got != tt.want {
				t.Errorf("Size = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTransform_PageUsesLimit(t *testing.T) {
	w := Transform(Params{Page: intp(3), Limit: intp(15)})
	if w.From != 30 {
		t.Errorf("From = %d, want 30", w.From)
	}
}

func TestTransform_DateField(t *testing.T) {
	w := Transform(Params{DateFieldType: "filing_date"})
	if w.Filters == nil || w.Filters.DateField != "metadata.filing_date" {
		t.Errorf("Filters = %+v", w.Filters)
	}
	w = Transform(Params{DateFieldType: "created_at"})
	if w.Filters == nil || w.Filters.DateField != "created_at" {
		t.Errorf("Filters = %+v", w.Filters)
	}
}

func TestTransform_DateFieldMergesFilters(t *testing.T) {
	caller := &Filters{Court: []string{"Superior"}}
	w := Transform(Params{DateFieldType: "event_date", Filters: caller})
	if w.Filters.DateField != "metadata.event_date" {
		t.Errorf("DateField = %q", w.Filters.DateField)
	}
	if len(w.Filters.Court) != 1 || w.Filters.Court[0] != "Superior" {
		t.Errorf("Court = %v", w.Filters.Court)
	}
	if caller.DateField != "" {
		t.Error("caller filters were modified")
	}
}

func TestTransform_LegacyAliases(t *testing.T) {
	w := Transform(Params{Tags: []string{"brady"}, UseFuzzy: true})
	if len(w.LegalTags) != 1 || w.LegalTags[0] != "brady" {
		t.Errorf("LegalTags = %v", w.LegalTags)
	}
	if !w.FuzzySearch {
		t.Error("use_fuzzy should enable fuzzy_search")
	}

	w = Transform(Params{LegalTags: []string{"miranda"}, Tags: []string{"brady"}})
	if w.LegalTags[0] != "miranda" {
		t.Errorf("LegalTags = %v, want legal_tags to win", w.LegalTags)
	}
}

func TestTransform_IncludeHighlightsFalse(t *testing.T) {
	if Transform(Params{IncludeHighlights: boolp(false)}).IncludeHighlights {
		t.Error("explicit false must be kept")
	}
}

func TestTransform_OmitsUnsetFields(t *testing.T) {
	body, err := json.Marshal(Transform(Params{Query: "suppress"}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"doc_type", "judge", "court", "legal_tags", "date_range", "filters"} {
		if _, ok := m[k]; ok {
			t.Errorf("unexpected key %q in %s", k, body)
		}
	}
	for _, k := range []string{"query", "size", "from", "sort_by", "sort_order", "include_highlights", "fuzzy_search", "legal_tags_match_all"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, body)
		}
	}
}

func TestOneOrMany_Unmarshal(t *testing.T) {
	var p Params
	if err := json.Unmarshal([]byte(`{"judge":"Smith","court":["A","B"]}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Judge) != 1 || p.Judge[0] != "Smith" {
		t.Errorf("Judge = %v", p.Judge)
	}
	if len(p.Court) != 2 {
		t.Errorf("Court = %v", p.Court)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Params{Size: intp(10), SortOrder: "asc"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	bad := []Params{
		{Size: intp(-1)},
		{Page: intp(-2)},
		{Size: intp(MaxSize + 1)},
		{SortOrder: "sideways"},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, domain.ErrInvalidParams) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidParams", p, err)
		}
	}
}
