package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/", Tokens: tokens})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestAuthHeaders(t *testing.T) {
	h := AuthHeaders("")
	if h.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", h.Get("Content-Type"))
	}
	if h.Get("Authorization") != "" {
		t.Error("Authorization should be absent without a token")
	}
	if AuthHeaders("tok").Get("Authorization") != "Bearer tok" {
		t.Error("expected bearer header")
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "/relative"} {
		if _, err := New(Config{BaseURL: u}); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestClient_GetSendsHeaders(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, TokenFunc(func(context.Context) (string, error) { return "session-token", nil }))

	body, err := c.Get(context.Background(), "get legal tags", "/api/v1/legal-tags", map[string][]string{"limit": {"5"}})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
	if got.URL.Path != "/api/v1/legal-tags" || got.URL.Query().Get("limit") != "5" {
		t.Errorf("URL = %s", got.URL)
	}
	if got.Header.Get("Authorization") != "Bearer session-token" {
		t.Errorf("Authorization = %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if got.Header.Get("X-Requested-With") != "XMLHttpRequest" {
		t.Error("missing X-Requested-With")
	}
	if !strings.HasPrefix(got.UserAgent(), "lexsearch/") {
		t.Errorf("User-Agent = %q", got.UserAgent())
	}
}

func TestClient_ContextTokenWins(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}, TokenFunc(func(context.Context) (string, error) { return "fallback", nil }))

	ctx := WithToken(context.Background(), "per-request")
	if _, err := c.Get(ctx, "op", "/x", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if auth != "Bearer per-request" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestClient_TokenSourceError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}, TokenFunc(func(context.Context) (string, error) { return "", domain.ErrUnauthenticated }))

	_, err := c.Get(context.Background(), "op", "/x", nil)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("err = %v", err)
	}
}

func TestClient_HTTPErrorCarriesEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"VALIDATION","message":"size too large"}}`))
	}, nil)

	_, err := c.Post(context.Background(), "search documents", "/api/v1/search", map[string]int{"size": 5000})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %T %v", err, err)
	}
	if httpErr.StatusCode != 422 || httpErr.Body == nil {
		t.Errorf("HTTPError = %+v", httpErr)
	}
	if ClassifyError(err, "search documents").Error() != "size too large" {
		t.Errorf("classified = %q", ClassifyError(err, "search documents"))
	}
}

func TestClient_HTTPErrorWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
	}, nil)

	_, err := c.Delete(context.Background(), "cancel batch job", "/api/v1/batch/j1")
	if err == nil || err.Error() != "HTTP 502: Bad Gateway" {
		t.Errorf("err = %v", err)
	}
}

func TestClient_ResponseSizeCap(t *testing.T) {
	body := `{"success":true,"data":"0123456789"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	exact, err := New(Config{BaseURL: srv.URL, MaxBodyBytes: int64(len(body))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := exact.Get(context.Background(), "get document", "/api/v1/documents/d1", nil)
	if err != nil || string(got) != body {
		t.Fatalf("at the cap: body = %q, err = %v", got, err)
	}

	small, err := New(Config{BaseURL: srv.URL, MaxBodyBytes: int64(len(body)) - 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err = small.Get(context.Background(), "get document", "/api/v1/documents/d1", nil)
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("over the cap: err = %v, want ErrResponseTooLarge", err)
	}
	if got != nil {
		t.Errorf("truncated body returned: %q", got)
	}
	if classified := ClassifyError(err, "get document"); !errors.Is(classified, ErrResponseTooLarge) {
		t.Errorf("classified = %v", classified)
	}
}

func TestClient_Upload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "motion.pdf" || string(data) != "%PDF" {
			t.Errorf("upload = %s %q", hdr.Filename, data)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}, nil)

	if _, err := c.Upload(context.Background(), "categorize document", "/api/v1/categorise", "file", "motion.pdf", strings.NewReader("%PDF")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestClient_OpenAndExists(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/files/docs/a.pdf" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("content"))
	}, nil)

	rc, err := c.Open(context.Background(), "download", srv.URL+"/api/v1/files/docs/a.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "content" {
		t.Errorf("data = %q", data)
	}

	_, err = c.Open(context.Background(), "download", srv.URL+"/api/v1/files/missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v", err)
	}

	ok, err := c.Exists(context.Background(), srv.URL+"/api/v1/files/docs/a.pdf")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
	ok, err = c.Exists(context.Background(), srv.URL+"/api/v1/files/missing")
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
}

func TestClient_TokenNotSentToOtherHosts(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("token leaked to foreign host")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer other.Close()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	ctx := WithToken(context.Background(), "secret")
	if _, err := c.Exists(ctx, other.URL+"/file.pdf"); err != nil {
		t.Fatalf("Exists: %v", err)
	}
}

func TestClient_Ping(t *testing.T) {
	status := http.StatusUnauthorized
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(status)
	}, nil)

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("401 should count as reachable: %v", err)
	}
	status = http.StatusServiceUnavailable
	if err := c.Ping(context.Background()); err == nil {
		t.Error("503 should fail the ping")
	}
}
