package catalog

// TypeCount is the number of documents of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TagCount is the number of documents carrying one legal tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// FieldStat summarizes the values of one metadata field.
type FieldStat struct {
	UniqueValues int `json:"unique_values"`
	TotalValues  int `json:"total_values"`
}

// FieldValue is one observed value of a metadata field.
type FieldValue struct {
	Value    string `json:"value"`
	Count    int    `json:"count"`
	LastSeen string `json:"last_seen,omitempty"`
}

// Field describes a searchable metadata field.
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// DateSpan is a stored oldest/newest pair.
type DateSpan struct {
	Oldest string `json:"oldest"`
	Newest string `json:"newest"`
}

// Stats are corpus-level document statistics.
type Stats struct {
	TotalDocuments int                  `json:"total_documents"`
	DocumentTypes  map[string]int       `json:"document_types"`
	RecentUploads  int                  `json:"recent_uploads"`
	StorageSize    string               `json:"storage_size,omitempty"`
	IndexSize      string               `json:"index_size,omitempty"`
	TypeCounts     []TypeCount          `json:"type_counts,omitempty"`
	TagCounts      []TagCount           `json:"tag_counts,omitempty"`
	LastUpdated    string               `json:"last_updated,omitempty"`
	FieldStats     map[string]FieldStat `json:"field_stats,omitempty"`
	DateRange      *DateSpan            `json:"date_range,omitempty"`
}

// Option field groups as the backend names them, mapped to search parameter names.
var optionKeys = []struct{ Backend, Param string }{
	{"doc_types", "doc_type"},
	{"legal_tags", "legal_tags"},
	{"courts", "court"},
	{"judges", "judge"},
	{"statuses", "status"},
	{"authors", "author"},
}

// FieldOptions maps search parameter names to their selectable values.
type FieldOptions map[string][]string

// NewFieldOptions flattens backend option groups. Groups the backend omits are
// absent from the result.
func NewFieldOptions(groups map[string][]FieldValue) FieldOptions {
	out := FieldOptions{}
	for _, k := range optionKeys {
		values, ok := groups[k.Backend]
		if !ok {
			continue
		}
		list := make([]string, 0, len(values))
		for _, v := range values {
			list = append(list, v.Value)
		}
		out[k.Param] = list
	}
	return out
}

// TypeMap converts type counts into a type-to-count map, skipping unnamed types.
func TypeMap(counts []TypeCount) map[string]int {
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		if c.Type != "" {
			m[c.Type] = c.Count
		}
	}
	return m
}
