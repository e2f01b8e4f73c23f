package chi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
)

func multipartFile(t *testing.T, field, filename, content string) (body, contentType string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte(content))
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return buf.String(), mw.FormDataContentType()
}

func TestStorage_List(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/storage/documents": reply(`{"success":true,"data":{"documents":[{"path":"briefs/a.pdf","name":"a.pdf","size":10}]}}`),
	}}
	rr := do(newTestServer(t, fb, nil), http.MethodGet, "/api/storage", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	var docs []struct {
		Path string `json:"path"`
		Size int64  `json:"size"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&docs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 1 || docs[0].Path != "briefs/a.pdf" || docs[0].Size != 10 {
		t.Errorf("docs = %+v", docs)
	}
}

func TestStorage_ListBackendFailure(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/storage/documents": reply(`{"success":true}`),
	}}
	rr := do(newTestServer(t, fb, nil), http.MethodGet, "/api/storage", "")
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestStorage_CountAndStats(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/storage/documents/count": reply(`{"success":true,"data":{"total_documents":2,"storage_backend":"s3"}}`),
		"GET /api/v1/storage/documents":       reply(`{"success":true,"data":[{"path":"a.pdf","size":10},{"path":"b.pdf","size":32}]}`),
	}}
	h := newTestServer(t, fb, nil)

	rr := do(h, http.MethodGet, "/api/storage/count", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"total_documents":2`) {
		t.Fatalf("count status = %d, body = %s", rr.Code, rr.Body)
	}

	rr = do(h, http.MethodGet, "/api/storage/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status = %d, body = %s", rr.Code, rr.Body)
	}
	var stats struct {
		TotalDocuments int    `json:"total_documents"`
		TotalSize      int64  `json:"total_size"`
		StorageBackend string `json:"storage_backend"`
		LastUpdated    string `json:"last_updated"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalDocuments != 2 || stats.TotalSize != 42 || stats.StorageBackend != "s3" || stats.LastUpdated == "" {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStorage_StatsPropagatesCountFailure(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/storage/documents": reply(`{"success":true,"data":[]}`),
	}}
	if rr := do(newTestServer(t, fb, nil), http.MethodGet, "/api/storage/stats", ""); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, body = %s", rr.Code, rr.Body)
	}
}

func TestFileExists(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"HEAD /api/v1/files/briefs/a.pdf": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
	}}
	h := newTestServer(t, fb, nil)

	if rr := do(h, http.MethodHead, "/api/storage/files/briefs/a.pdf", ""); rr.Code != http.StatusOK {
		t.Errorf("existing status = %d", rr.Code)
	}
	if rr := do(h, http.MethodHead, "/api/storage/files/briefs/missing.pdf", ""); rr.Code != http.StatusNotFound {
		t.Errorf("missing status = %d", rr.Code)
	}
}

func TestGetDocument(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/documents/d1": reply(`{"success":true,"data":{"id":"d1","file_name":"a.pdf","doc_type":"order"}}`),
	}}
	h := newTestServer(t, fb, nil)

	rr := do(h, http.MethodGet, "/api/documents/d1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	var doc struct {
		ID      string `json:"id"`
		DocType string `json:"doc_type"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.ID != "d1" || doc.DocType != "order" {
		t.Errorf("doc = %+v", doc)
	}

	rr = do(h, http.MethodGet, "/api/documents/d2", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rr.Code)
	}
	if e := decodeErr(t, rr); e.Error != codeNotFound {
		t.Errorf("error = %+v", e)
	}
}

func TestUpdateMetadata(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/v1/update-metadata": reply(`{"success":true,"data":{"id":"d1","metadata":{"subject":"Bail"}}}`),
	}}
	h := newTestServer(t, fb, nil)

	rr := do(h, http.MethodPut, "/api/documents/d1/metadata", `{"subject":"Bail"}`)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"subject":"Bail"`) {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	var wire struct {
		DocumentID string         `json:"document_id"`
		Metadata   map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(fb.lastReq, &wire); err != nil {
		t.Fatalf("backend request: %v", err)
	}
	if wire.DocumentID != "d1" || wire.Metadata["subject"] != "Bail" {
		t.Errorf("backend request = %s", fb.lastReq)
	}

	if rr := do(h, http.MethodPut, "/api/documents/d1/metadata", `[`); rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", rr.Code)
	}
}

func TestDocumentURL(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/documents/named":  reply(`{"success":true,"data":{"id":"named","file_name":"a.pdf"}}`),
		"GET /api/v1/documents/bare":   reply(`{"success":true,"data":{"id":"bare"}}`),
		"GET /api/v1/documents/orphan": reply(`{"success":true,"data":{"id":"orphan","file_name":"gone.pdf"}}`),
		"GET /api/v1/files/search": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("name") != "a.pdf" {
				_, _ = w.Write([]byte(`{"success":true,"data":{"documents":[],"total_found":0}}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"documents":[{"filename":"A.PDF","api_url":"/api/v1/files/briefs/A.PDF"}],"total_found":1}}`))
		},
	}}
	h := newTestServer(t, fb, nil)

	tests := []struct {
		id       string
		wantCode int
		wantURL  string
	}{
		{"named", http.StatusOK, "/api/v1/files/briefs/A.PDF"},
		{"bare", http.StatusOK, "/api/v1/files/bare"},
		{"orphan", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rr := do(h, http.MethodGet, "/api/documents/"+tt.id+"/url", "")
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
			}
			if tt.wantURL == "" {
				if e := decodeErr(t, rr); e.Error != codeNoDocumentURL {
					t.Errorf("error = %+v", e)
				}
				return
			}
			var resp urlResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !strings.HasPrefix(resp.URL, "http://") || !strings.HasSuffix(resp.URL, tt.wantURL) {
				t.Errorf("url = %q, want suffix %q", resp.URL, tt.wantURL)
			}
		})
	}
}

func TestDownloadDocument(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/documents/d1":       reply(`{"success":true,"data":{"id":"d1","file_name":"a.pdf","file_path":"briefs/a.pdf"}}`),
		"GET /api/v1/files/briefs/a.pdf": reply("%PDF-1.7"),
		"GET /api/v1/documents/d2":       reply(`{"success":true,"data":{"id":"d2"}}`),
		"GET /api/v1/files/d2":           reply("%PDF-1.4"),
		"GET /api/v1/documents/orphan":   reply(`{"success":true,"data":{"id":"orphan","file_name":"gone.pdf"}}`),
		"GET /api/v1/files/search":       reply(`{"success":true,"data":{"documents":[],"total_found":0}}`),
	}}
	h := newTestServer(t, fb, nil)

	rr := do(h, http.MethodGet, "/api/documents/d1/download", "", "Authorization", "Bearer user-jwt")
	if rr.Code != http.StatusOK || rr.Body.String() != "%PDF-1.7" {
		t.Fatalf("status = %d, body = %q", rr.Code, rr.Body)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=a.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if got := fb.auth[len(fb.auth)-1]; got != "Bearer user-jwt" {
		t.Errorf("download Authorization = %q", got)
	}

	rr = do(h, http.MethodGet, "/api/documents/d2/download", "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Disposition") != "attachment; filename=d2" {
		t.Errorf("id fallback status = %d, disposition = %q", rr.Code, rr.Header().Get("Content-Disposition"))
	}

	if rr := do(h, http.MethodGet, "/api/documents/orphan/download", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unresolvable status = %d", rr.Code)
	}
}

func TestRedactionAnalysis(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/documents/d1/redactions": reply(`{"success":true,"data":{"redaction_analysis":{"redactions_found":2,"sensitive_terms":["SSN"]}}}`),
	}}
	h := newTestServer(t, fb, nil)

	rr := do(h, http.MethodGet, "/api/documents/d1/redactions", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"redactions_found":2`) {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}

	rr = do(h, http.MethodGet, "/api/documents/d2/redactions", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != `{"redaction_analysis":null}` {
		t.Errorf("missing analysis status = %d, body = %s", rr.Code, rr.Body)
	}
}

func TestRedact(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/v1/redact-document": reply(`{"success":true,"data":{"document_id":"d1","redacted_url":"/files/d1-redacted.pdf","message":"Redacted copy created"}}`),
	}}
	h := newTestServer(t, fb, nil)

	rr := do(h, http.MethodPost, "/api/documents/d1/redact", `{"apply_redactions":true}`)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"redacted_url":"/files/d1-redacted.pdf"`) {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	var wire map[string]any
	_ = json.Unmarshal(fb.lastReq, &wire)
	if wire["document_id"] != "d1" || wire["apply_redactions"] != true {
		t.Errorf("backend request = %s", fb.lastReq)
	}

	if rr := do(h, http.MethodPost, "/api/documents/d1/redact", `nope`); rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", rr.Code)
	}
}

func TestAnalyzeRedactions(t *testing.T) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/v1/analyze-redactions": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"success":true,"data":{"redaction_analysis":{"redactions_found":1},"message":"ok"}}`))
		},
	}}
	h := newTestServer(t, fb, nil)

	body, ct := multipartFile(t, "file", "brief.pdf", "%PDF")
	rr := do(h, http.MethodPost, "/api/redactions/analyze", body, "Content-Type", ct)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"redactions_found":1`) {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	uploaded := string(fb.lastReq)
	if !strings.Contains(uploaded, `filename="brief.pdf"`) || !strings.Contains(uploaded, "%PDF") {
		t.Errorf("backend upload = %q", uploaded)
	}

	body, ct = multipartFile(t, "document", "brief.pdf", "%PDF")
	rr = do(h, http.MethodPost, "/api/redactions/analyze", body, "Content-Type", ct)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("wrong field status = %d", rr.Code)
	}
}
