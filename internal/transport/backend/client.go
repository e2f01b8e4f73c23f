package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/metrics"
	"github.com/kailas-cloud/lexsearch/internal/version"
)

// Client defaults.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 32 << 20
)

// Config holds the document backend client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *zap.Logger
	// MaxBodyBytes caps buffered response bodies. 0 uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Client is the HTTP/JSON client for the document backend. It returns raw
// response bodies; callers decode the envelope their endpoint uses.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	maxBody int64
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", cfg.BaseURL)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		tokens:  cfg.Tokens,
		logger:  logger.With(zap.String("component", "backend_client")),
		maxBody: maxBody,
	}, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Get issues a GET to path with optional query parameters.
func (c *Client) Get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	return c.doJSON(ctx, op, http.MethodGet, c.endpoint(path, query), nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, op, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}
	return c.doJSON(ctx, op, http.MethodPost, c.endpoint(path, nil), payload)
}

// Delete issues a DELETE to path.
func (c *Client) Delete(ctx context.Context, op, path string) ([]byte, error) {
	return c.doJSON(ctx, op, http.MethodDelete, c.endpoint(path, nil), nil)
}

// Upload posts r as a multipart form file under field.
func (c *Client) Upload(ctx context.Context, op, path, field, filename string, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &buf)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return c.readBody(resp)
}

// Open streams the resource at rawURL. The caller closes the reader.
func (c *Client) Open(ctx context.Context, op, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}
	resp, err := c.send(op, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		_, err := c.readBody(resp)
		return nil, err
	}
	return resp.Body, nil
}

// Exists reports whether a HEAD of rawURL succeeds.
func (c *Client) Exists(ctx context.Context, rawURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("create head request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return false, err
	}
	resp, err := c.send("check file exists", req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

// Ping reports whether the backend answers at all. Any status below 500,
// including 401 and 403, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint("/", nil), http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := c.send("ping", req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return &HTTPError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, op, method, target string, payload []byte) ([]byte, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}
	resp, err := c.send(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return c.readBody(resp)
}

// authorize sets the standard headers. The bearer token is sent only to the
// backend host.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token := ""
	if req.URL.Host == c.baseURL.Host {
		t, err := c.token(ctx)
		if err != nil {
			return err
		}
		token = t
	}
	for k, v := range AuthHeaders(token) {
		req.Header[k] = v
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", version.UserAgent())
	return nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if t, ok := TokenFromContext(ctx); ok {
		return t, nil
	}
	if c.tokens == nil {
		return "", nil
	}
	t, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("get session token: %w", err)
	}
	return t, nil
}

func (c *Client) send(op string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req) //nolint:gosec // URL built from configured base URL
	duration := time.Since(start)
	metrics.BackendRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		c.logger.Warn("backend request failed",
			zap.String("operation", op),
			zap.String("method", req.Method),
			zap.String("request_id", req.Header.Get("X-Request-ID")),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err //nolint:wrapcheck // keep context errors recognizable
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	status := "success"
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status = "http_" + strconv.Itoa(resp.StatusCode)
	}
	metrics.BackendRequestsTotal.WithLabelValues(op, status).Inc()
	c.logger.Debug("backend request",
		zap.String("operation", op),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
		zap.Duration("duration", duration),
	)
	return resp, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// readBody returns the body of a 2xx response, or an *HTTPError. A body over
// the size cap fails with ErrResponseTooLarge rather than being truncated.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	tooLarge := int64(len(body)) > c.maxBody
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
		if err == nil && !tooLarge {
			if env, perr := ParseEnvelope(body); perr == nil {
				httpErr.Body = env
			}
		}
		return nil, httpErr
	}
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if tooLarge {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, c.maxBody)
	}
	return body, nil
}

func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
