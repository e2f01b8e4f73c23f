package catalog

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// --- Mocks ---

type mockBackend struct {
	replies map[string]string
	calls   int
	query   url.Values
	err     error
}

func (m *mockBackend) Get(_ context.Context, _, path string, q url.Values) ([]byte, error) {
	m.calls++
	m.query = q
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.replies[path]), nil
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"cache", "result"})
}

// --- Tests ---

func TestDocumentTypes(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/document-types": `{"status":"success","data":[{"type":"motion","count":4},{"type":"order","count":2}]}`,
	}}
	got, err := New(mb, 0, 0, nil).DocumentTypes(context.Background())
	if err != nil {
		t.Fatalf("DocumentTypes: %v", err)
	}
	if got["motion"] != 4 || got["order"] != 2 {
		t.Errorf("types = %v", got)
	}
}

func TestDocumentTypes_RequiresSuccessStatus(t *testing.T) {
	for _, reply := range []string{
		`{"status":"error","data":[]}`,
		`{"status":"success"}`,
		`not json`,
	} {
		mb := &mockBackend{replies: map[string]string{"/api/v1/document-types": reply}}
		_, err := New(mb, 0, 0, nil).DocumentTypes(context.Background())
		if !errors.Is(err, domain.ErrInvalidResponse) {
			t.Errorf("reply %s: err = %v, want ErrInvalidResponse", reply, err)
			continue
		}
		if err.Error() != "Document types request failed - invalid response format" {
			t.Errorf("message = %q", err.Error())
		}
	}
}

func TestLegalTags(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/legal-tags": `{"status":"success","data":[{"tag":"brady","count":3},{"tag":"miranda","count":1}]}`,
	}}
	got, err := New(mb, 0, 0, nil).LegalTags(context.Background())
	if err != nil {
		t.Fatalf("LegalTags: %v", err)
	}
	if len(got) != 2 || got[0] != "brady" || got[1] != "miranda" {
		t.Errorf("tags = %v", got)
	}
}

func TestFieldValues(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/metadata-fields/judge": `{"data":{"values":[{"value":"Smith","count":2},{"value":"Jones","count":1}]}}`,
	}}
	got, err := New(mb, 0, 0, nil).FieldValues(context.Background(), "judge", "S", 0)
	if err != nil {
		t.Fatalf("FieldValues: %v", err)
	}
	if len(got) != 2 || got[0] != "Smith" {
		t.Errorf("values = %v", got)
	}
	if mb.query.Get("limit") != "20" || mb.query.Get("search") != "S" {
		t.Errorf("query = %v", mb.query)
	}
}

func TestFieldValues_MissingData(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{"/api/v1/metadata-fields/judge": `{"values":[]}`}}
	_, err := New(mb, 0, 0, nil).FieldValues(context.Background(), "judge", "", 5)
	if !errors.Is(err, domain.ErrInvalidResponse) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestFieldValues_InvalidField(t *testing.T) {
	mb := &mockBackend{}
	if _, err := New(mb, 0, 0, nil).FieldValues(context.Background(), "a/b", "", 5); !errors.Is(err, domain.ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
	if mb.calls != 0 {
		t.Error("backend should not be called")
	}
}

func TestFieldOptions_WrappedAndBare(t *testing.T) {
	for _, reply := range []string{
		`{"success":true,"data":{"courts":[{"value":"Superior"}],"judges":[{"value":"Smith"},{"value":"Jones"}]}}`,
		`{"courts":[{"value":"Superior"}],"judges":[{"value":"Smith"},{"value":"Jones"}]}`,
	} {
		mb := &mockBackend{replies: map[string]string{"/api/v1/field-options": reply}}
		got, err := New(mb, 0, 0, nil).FieldOptions(context.Background())
		if err != nil {
			t.Fatalf("FieldOptions: %v", err)
		}
		if len(got["court"]) != 1 || len(got["judge"]) != 2 {
			t.Errorf("options = %v", got)
		}
		if _, ok := got["doc_type"]; ok {
			t.Error("absent group should stay absent")
		}
	}
}

func TestDocumentStats(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/document-stats": `{"data":{"total_documents":"12","total_size":"3 MB",` +
			`"type_counts":[{"type":"motion","count":7},{"type":"","count":1}],"last_updated":"2024-01-01"}}`,
	}}
	got, err := New(mb, 0, 0, nil).DocumentStats(context.Background())
	if err != nil {
		t.Fatalf("DocumentStats: %v", err)
	}
	if got.TotalDocuments != 12 {
		t.Errorf("TotalDocuments = %d", got.TotalDocuments)
	}
	if got.StorageSize != "3 MB" {
		t.Errorf("StorageSize = %q", got.StorageSize)
	}
	if len(got.DocumentTypes) != 1 || got.DocumentTypes["motion"] != 7 {
		t.Errorf("DocumentTypes = %v", got.DocumentTypes)
	}
}

func TestDocumentStats_IndexSizeWins(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/document-stats": `{"total_documents":3,"index_size":2048,"total_size":"9 MB"}`,
	}}
	got, err := New(mb, 0, 0, nil).DocumentStats(context.Background())
	if err != nil {
		t.Fatalf("DocumentStats: %v", err)
	}
	if got.TotalDocuments != 3 || got.StorageSize != "2048" {
		t.Errorf("stats = %+v", got)
	}
}

func TestMetadataFields(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/metadata-fields": `{"data":{"fields":[{"id":"judge","name":"Judge","type":"string"}]}}`,
	}}
	got, err := New(mb, 0, 0, nil).MetadataFields(context.Background())
	if err != nil || len(got) != 1 || got[0].ID != "judge" {
		t.Fatalf("fields = %v, err = %v", got, err)
	}

	mb.replies["/api/v1/metadata-fields"] = `{"data":{}}`
	got, err = New(mb, 0, 0, nil).MetadataFields(context.Background())
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("fields = %v, err = %v, want empty", got, err)
	}
}

func TestBackendError_Classified(t *testing.T) {
	mb := &mockBackend{err: errors.New("dial tcp: connection refused")}
	_, err := New(mb, 0, 0, nil).LegalTags(context.Background())
	if err == nil || err.Error() != "dial tcp: connection refused" {
		t.Errorf("err = %v", err)
	}
}

func TestCache_HitAndMiss(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/legal-tags": `{"status":"success","data":[{"tag":"brady","count":3}]}`,
	}}
	counter := newCounter()
	svc := New(mb, 16, time.Minute, counter)

	for range 3 {
		if _, err := svc.LegalTags(context.Background()); err != nil {
			t.Fatalf("LegalTags: %v", err)
		}
	}
	if mb.calls != 1 {
		t.Errorf("backend calls = %d, want 1", mb.calls)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("catalog", "hit")); v != 2 {
		t.Errorf("hits = %v, want 2", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("catalog", "miss")); v != 1 {
		t.Errorf("misses = %v, want 1", v)
	}

	svc.Invalidate()
	if _, err := svc.LegalTags(context.Background()); err != nil {
		t.Fatalf("LegalTags: %v", err)
	}
	if mb.calls != 2 {
		t.Errorf("backend calls after invalidate = %d, want 2", mb.calls)
	}
}

func TestCache_ErrorsNotCached(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{"/api/v1/legal-tags": `{"status":"error"}`}}
	svc := New(mb, 16, time.Minute, nil)
	if _, err := svc.LegalTags(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	mb.replies["/api/v1/legal-tags"] = `{"status":"success","data":[]}`
	if _, err := svc.LegalTags(context.Background()); err != nil {
		t.Fatalf("LegalTags: %v", err)
	}
	if mb.calls != 2 {
		t.Errorf("calls = %d, want 2", mb.calls)
	}
}

func TestCache_KeyIncludesQuery(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{"/api/v1/metadata-fields/judge": `{"data":{"values":[]}}`}}
	svc := New(mb, 16, time.Minute, nil)
	_, _ = svc.FieldValues(context.Background(), "judge", "a", 5)
	_, _ = svc.FieldValues(context.Background(), "judge", "b", 5)
	_, _ = svc.FieldValues(context.Background(), "judge", "a", 5)
	if mb.calls != 2 {
		t.Errorf("calls = %d, want 2", mb.calls)
	}
}

func TestCache_KeyUnambiguous(t *testing.T) {
	mb := &mockBackend{replies: map[string]string{
		"/api/v1/metadata-fields/judge":   `{"data":{"values":[{"value":"Smith"}]}}`,
		"/api/v1/metadata-fields/judge:a": `{"data":{"values":[{"value":"Jones"}]}}`,
	}}
	svc := New(mb, 16, time.Minute, nil)

	first, err := svc.FieldValues(context.Background(), "judge", "a:b", 5)
	if err != nil {
		t.Fatalf("FieldValues: %v", err)
	}
	second, err := svc.FieldValues(context.Background(), "judge:a", "b", 5)
	if err != nil {
		t.Fatalf("FieldValues: %v", err)
	}
	if mb.calls != 2 {
		t.Errorf("calls = %d, want 2", mb.calls)
	}
	if len(first) != 1 || first[0] != "Smith" || len(second) != 1 || second[0] != "Jones" {
		t.Errorf("values = %v, %v", first, second)
	}
}
