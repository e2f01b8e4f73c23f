package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	domcatalog "github.com/kailas-cloud/lexsearch/internal/domain/catalog"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

// DefaultFieldValuesLimit is used when FieldValues is called with limit <= 0.
const DefaultFieldValuesLimit = 20

const (
	opTypes   = "get document types"
	opTags    = "get legal tags"
	opValues  = "get metadata field values"
	opOptions = "get field options"
	opStats   = "get document statistics"
	opFields  = "get metadata fields"
)

// Service serves metadata enumerations for search filters. Results are kept
// in an in-process LRU with TTL; cached values are shared and must not be
// modified by callers.
type Service struct {
	backend    Backend
	cache      *expirable.LRU[string, any]
	cacheTotal *prometheus.CounterVec
}

// New creates a catalog service. A non-positive size disables caching.
// cacheTotal is a counter vec with labels "cache" and "result", passed explicitly.
func New(b Backend, size int, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Service {
	s := &Service{backend: b, cacheTotal: cacheTotal}
	if size > 0 {
		s.cache = expirable.NewLRU[string, any](size, nil, ttl)
	}
	return s
}

// Invalidate drops every cached enumeration.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// statusEnvelope is the {status:"success", data} wrapper some catalog endpoints use.
type statusEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decodeStatus[T any](body []byte, what string) (T, error) {
	var zero T
	var env statusEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Status != "success" || isNull(env.Data) {
		return zero, domain.NewInvalidResponse(what)
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, domain.NewInvalidResponse(what)
	}
	return out, nil
}

// DocumentTypes returns the number of indexed documents per type.
func (s *Service) DocumentTypes(ctx context.Context) (map[string]int, error) {
	return cached(ctx, s, "document_types", func(ctx context.Context) (map[string]int, error) {
		body, err := s.backend.Get(ctx, opTypes, "/api/v1/document-types", nil)
		if err != nil {
			return nil, backend.ClassifyError(err, opTypes)
		}
		counts, err := decodeStatus[[]domcatalog.TypeCount](body, "Document types request")
		if err != nil {
			return nil, backend.ClassifyError(err, opTypes)
		}
		return domcatalog.TypeMap(counts), nil
	})
}

// LegalTags returns every legal tag known to the index.
func (s *Service) LegalTags(ctx context.Context) ([]string, error) {
	return cached(ctx, s, "legal_tags", func(ctx context.Context) ([]string, error) {
		body, err := s.backend.Get(ctx, opTags, "/api/v1/legal-tags", nil)
		if err != nil {
			return nil, backend.ClassifyError(err, opTags)
		}
		counts, err := decodeStatus[[]domcatalog.TagCount](body, "Legal tags request")
		if err != nil {
			return nil, backend.ClassifyError(err, opTags)
		}
		out := make([]string, 0, len(counts))
		for _, c := range counts {
			out = append(out, c.Tag)
		}
		return out, nil
	})
}

// FieldValues returns values of a metadata field, optionally filtered by a
// search prefix.
func (s *Service) FieldValues(ctx context.Context, field, search string, limit int) ([]string, error) {
	if err := domain.CheckPathID("field", field); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultFieldValuesLimit
	}
	q := url.Values{"search": {search}, "limit": {strconv.Itoa(limit)}}
	// Query-escaped parts keep keys distinct when field or search contain ':'.
	key := "field_values:" + url.PathEscape(field) + "?" + q.Encode()
	return cached(ctx, s, key, func(ctx context.Context) ([]string, error) {
		body, err := s.backend.Get(ctx, opValues, "/api/v1/metadata-fields/"+field, q)
		if err != nil {
			return nil, backend.ClassifyError(err, opValues)
		}
		var env struct {
			Data *struct {
				Values []domcatalog.FieldValue `json:"values"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil || env.Data == nil {
			return nil, backend.ClassifyError(domain.NewInvalidResponse("Metadata field values request"), opValues)
		}
		out := make([]string, 0, len(env.Data.Values))
		for _, v := range env.Data.Values {
			out = append(out, v.Value)
		}
		return out, nil
	})
}

// FieldOptions returns the selectable values for every filterable field,
// keyed by search parameter name.
func (s *Service) FieldOptions(ctx context.Context) (domcatalog.FieldOptions, error) {
	return cached(ctx, s, "field_options", func(ctx context.Context) (domcatalog.FieldOptions, error) {
		body, err := s.backend.Get(ctx, opOptions, "/api/v1/field-options", nil)
		if err != nil {
			return nil, backend.ClassifyError(err, opOptions)
		}
		data, err := dataOrRaw(body)
		if err != nil {
			return nil, backend.ClassifyError(domain.NewInvalidResponse("Field options request"), opOptions)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, backend.ClassifyError(domain.NewInvalidResponse("Field options request"), opOptions)
		}
		groups := make(map[string][]domcatalog.FieldValue, len(raw))
		for k, v := range raw {
			var values []domcatalog.FieldValue
			if json.Unmarshal(v, &values) == nil && values != nil {
				groups[k] = values
			}
		}
		return domcatalog.NewFieldOptions(groups), nil
	})
}

type statsWire struct {
	TotalDocuments json.RawMessage                 `json:"total_documents"`
	IndexSize      json.RawMessage                 `json:"index_size"`
	TotalSize      json.RawMessage                 `json:"total_size"`
	TypeCounts     []domcatalog.TypeCount          `json:"type_counts"`
	TagCounts      []domcatalog.TagCount           `json:"tag_counts"`
	LastUpdated    string                          `json:"last_updated"`
	FieldStats     map[string]domcatalog.FieldStat `json:"field_stats"`
	DateRange      *domcatalog.DateSpan            `json:"date_range"`
}

// DocumentStats returns corpus-level statistics.
func (s *Service) DocumentStats(ctx context.Context) (domcatalog.Stats, error) {
	return cached(ctx, s, "document_stats", func(ctx context.Context) (domcatalog.Stats, error) {
		body, err := s.backend.Get(ctx, opStats, "/api/v1/document-stats", nil)
		if err != nil {
			return domcatalog.Stats{}, backend.ClassifyError(err, opStats)
		}
		data, err := dataOrRaw(body)
		var w statsWire
		if err == nil {
			err = json.Unmarshal(data, &w)
		}
		if err != nil {
			return domcatalog.Stats{}, backend.ClassifyError(fmt.Errorf("invalid document stats payload: %w", err), opStats)
		}

		total, _ := number(w.TotalDocuments)
		storageSize := scalar(w.IndexSize)
		if storageSize == "" {
			storageSize = scalar(w.TotalSize)
		}
		return domcatalog.Stats{
			TotalDocuments: int(total),
			DocumentTypes:  domcatalog.TypeMap(w.TypeCounts),
			StorageSize:    storageSize,
			IndexSize:      scalar(w.IndexSize),
			TypeCounts:     w.TypeCounts,
			TagCounts:      w.TagCounts,
			LastUpdated:    w.LastUpdated,
			FieldStats:     w.FieldStats,
			DateRange:      w.DateRange,
		}, nil
	})
}

// MetadataFields lists the searchable metadata fields.
func (s *Service) MetadataFields(ctx context.Context) ([]domcatalog.Field, error) {
	return cached(ctx, s, "metadata_fields", func(ctx context.Context) ([]domcatalog.Field, error) {
		body, err := s.backend.Get(ctx, opFields, "/api/v1/metadata-fields", nil)
		if err != nil {
			return nil, backend.ClassifyError(err, opFields)
		}
		var env struct {
			Data *struct {
				Fields []domcatalog.Field `json:"fields"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil || env.Data == nil {
			return nil, backend.ClassifyError(domain.NewInvalidResponse("Metadata fields request"), opFields)
		}
		if env.Data.Fields == nil {
			return []domcatalog.Field{}, nil
		}
		return env.Data.Fields, nil
	})
}

func cached[T any](ctx context.Context, s *Service, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if t, ok := v.(T); ok {
				s.inc("hit")
				return t, nil
			}
		}
		s.inc("miss")
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if s.cache != nil {
		s.cache.Add(key, v)
	}
	return v, nil
}

func (s *Service) inc(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues("catalog", result).Inc()
	}
}

// dataOrRaw returns the data member of an envelope, or the whole body when
// the endpoint sent its payload unwrapped.
func dataOrRaw(body []byte) (json.RawMessage, error) {
	var head struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, err
	}
	if !isNull(head.Data) {
		return head.Data, nil
	}
	return body, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// number reads a JSON number or numeric string.
func number(raw json.RawMessage) (float64, bool) {
	var v any
	if isNull(raw) || json.Unmarshal(raw, &v) != nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// scalar renders a JSON string or number as text.
func scalar(raw json.RawMessage) string {
	var v any
	if isNull(raw) || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}
