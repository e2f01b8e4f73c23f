package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	domsession "github.com/kailas-cloud/lexsearch/internal/domain/session"
	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
)

// DefaultRefreshSkew is how long before expiry Token refreshes the session.
const DefaultRefreshSkew = 30 * time.Second

// ErrClosed is returned by a Manager after Close.
var ErrClosed = errors.New("session manager closed")

// Manager owns one session and hands out its access token, refreshing it
// through the provider when it is about to expire. It implements
// backend.TokenSource. Safe for concurrent use; concurrent refreshes collapse
// into one provider call.
type Manager struct {
	provider Provider
	logger   *zap.Logger
	skew     time.Duration
	now      func() time.Time

	mu      sync.Mutex
	current *domsession.Session
	closed  bool
}

// New creates a session manager with no active session.
func New(p Provider, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		provider: p,
		logger:   logger.With(zap.String("component", "session")),
		skew:     DefaultRefreshSkew,
		now:      time.Now,
	}
}

// WithRefreshSkew overrides DefaultRefreshSkew.
func (m *Manager) WithRefreshSkew(d time.Duration) *Manager {
	if d >= 0 {
		m.skew = d
	}
	return m
}

// SignIn authenticates with email and password and makes the result the
// current session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (domsession.Session, error) {
	if err := domsession.ValidateCredentials(email, password); err != nil {
		return domsession.Session{}, err
	}
	tok, err := m.provider.PasswordGrant(ctx, email, password)
	if err != nil {
		return domsession.Session{}, fmt.Errorf("sign in: %w", err)
	}
	s := m.fromToken(tok)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domsession.Session{}, ErrClosed
	}
	m.current = &s
	m.logger.Info("signed in", zap.String("user_id", s.User.ID))
	return s, nil
}

// Restore installs a previously issued session. A missing expiry is read from
// the access token.
func (m *Manager) Restore(s domsession.Session) error {
	if s.AccessToken == "" {
		return fmt.Errorf("%w: session has no access token", domain.ErrInvalidParams)
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt, _ = tokenExpiry(s.AccessToken)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.current = &s
	return nil
}

// Session returns a copy of the current session.
func (m *Manager) Session() (domsession.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return domsession.Session{}, false
	}
	return *m.current, true
}

// Token returns the current access token, refreshing it first when it
// expires within the skew. With no session it returns "" so calls go out
// anonymously.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}
	if m.current == nil {
		return "", nil
	}
	if !m.current.ExpiresWithin(m.now(), m.skew) {
		return m.current.AccessToken, nil
	}
	if !m.current.CanRefresh() {
		m.current = nil
		return "", fmt.Errorf("session expired: %w", domain.ErrUnauthenticated)
	}

	tok, err := m.provider.RefreshGrant(ctx, m.current.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			m.current = nil
		}
		m.logger.Warn("session refresh failed", zap.Error(err))
		return "", fmt.Errorf("refresh session: %w", err)
	}
	s := m.fromToken(tok)
	if s.User.ID == "" {
		s.User = m.current.User
	}
	m.current = &s
	m.logger.Debug("session refreshed", zap.Time("expires_at", s.ExpiresAt))
	return s.AccessToken, nil
}

// SignOut revokes the session at the provider and forgets it. The session is
// dropped locally even when revocation fails.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	current := m.current
	m.current = nil
	m.mu.Unlock()

	if current == nil {
		return nil
	}
	if err := m.provider.Logout(ctx, current.AccessToken); err != nil {
		m.logger.Warn("sign out failed", zap.Error(err))
		return fmt.Errorf("sign out: %w", err)
	}
	m.logger.Info("signed out", zap.String("user_id", current.User.ID))
	return nil
}

// Close forgets the session and rejects further use. It does not revoke the
// session at the provider.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.closed = true
	return nil
}

func (m *Manager) fromToken(tok *identity.TokenResponse) domsession.Session {
	return FromToken(tok, m.now())
}

// FromToken builds a session from a token grant. The expiry comes from the
// access token's exp claim, then expires_at, then expires_in relative to now.
func FromToken(tok *identity.TokenResponse, now time.Time) domsession.Session {
	s := domsession.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		User:         domsession.User{ID: tok.User.ID, Email: tok.User.Email},
	}
	exp, ok := tokenExpiry(tok.AccessToken)
	switch {
	case ok:
		s.ExpiresAt = exp
	case tok.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tok.ExpiresAt, 0)
	case tok.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return s
}

// tokenExpiry reads the exp claim without verifying the signature; the
// identity provider and backend verify tokens.
func tokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
