// Package identity is a client for a GoTrue-compatible identity provider.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	"github.com/kailas-cloud/lexsearch/internal/version"
)

// DefaultTimeout bounds identity provider calls when no HTTP client is given.
const DefaultTimeout = 15 * time.Second

// Config holds identity provider settings.
type Config struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client talks to the provider's /auth/v1 endpoints.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// User is the account object returned with a token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenResponse is the body of a successful token grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Error is a non-2xx provider response. 400 and 401 unwrap to
// domain.ErrUnauthenticated.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity provider: %s (HTTP %d)", e.Message, e.StatusCode)
}

// Unwrap maps credential failures to ErrUnauthenticated.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnauthorized {
		return domain.ErrUnauthenticated
	}
	return nil
}

// New creates an identity client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid identity URL %q", cfg.URL)
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
	return &Client{
		baseURL: u.String(),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  logger.With(zap.String("component", "identity_client")),
	}, nil
}

// PasswordGrant signs in with email and password.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.grant(ctx, "password", map[string]string{"email": email, "password": password})
}

// RefreshGrant exchanges a refresh token for a new token pair.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.grant(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

// Logout revokes the session behind accessToken.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// GetUser returns the account behind accessToken. The provider checks the
// token, so a revoked or expired one fails with domain.ErrUnauthenticated.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("get user: %w", domain.ErrUnauthenticated)
	}
	resp, err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" {
		return nil, domain.NewInvalidResponse("User request")
	}
	return &u, nil
}

// Subject resolves the user id of accessToken through the provider.
func (c *Client) Subject(ctx context.Context, accessToken string) (string, error) {
	u, err := c.GetUser(ctx, accessToken)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Ping checks that the provider's health endpoint answers with 2xx.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	resp, err := c.http.Do(req) //nolint:gosec // URL built from configured base URL
	if err != nil {
		return fmt.Errorf("identity health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func (c *Client) grant(ctx context.Context, grantType string, body any) (*TokenResponse, error) {
	path := "/auth/v1/token?grant_type=" + url.QueryEscape(grantType)
	resp, err := c.do(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode %s grant: %w", grantType, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%s grant: %w", grantType, domain.NewInvalidResponse("Token request"))
	}
	c.logger.Debug("token issued", zap.String("grant_type", grantType), zap.String("user_id", token.User.ID))
	return &token, nil
}

// do sends body and returns a 2xx response or an *Error.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any) (*http.Response, error) {
	var payload io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode identity request: %w", err)
		}
		payload = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("create identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req) //nolint:gosec // URL built from configured base URL
	if err != nil {
		return nil, fmt.Errorf("identity request %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	e := &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	c.logger.Warn("identity request rejected",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", e.Message),
	)
	return nil, e
}

// errorMessage picks the message from the provider's error body, which uses
// error_description, msg or message depending on the endpoint.
func errorMessage(raw []byte) string {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	for _, m := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}
