package session

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// User is the signed-in account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated identity provider session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// ExpiresWithin reports whether the access token expires before now+skew.
// A zero ExpiresAt never expires.
func (s *Session) ExpiresWithin(now time.Time, skew time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(s.ExpiresAt)
}

// CanRefresh reports whether the session carries a refresh token.
func (s *Session) CanRefresh() bool { return s.RefreshToken != "" }

// ValidateCredentials checks sign-in input before it reaches the provider.
func ValidateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrInvalidParams)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("%w: please enter a valid email address", domain.ErrInvalidParams)
	}
	return nil
}

// Provider messages mapped to text suitable for an end user.
var friendly = []struct{ match, message string }{
	{"Invalid login credentials", "Invalid email or password. Please check your credentials and try again."},
	{"Email not confirmed", "Please check your email and click the confirmation link before signing in."},
	{"Too many requests", "Too many login attempts. Please wait a few minutes before trying again."},
}

// FriendlyMessage rewrites a provider sign-in error for display. Unknown
// messages are returned unchanged.
func FriendlyMessage(msg string) string {
	for _, f := range friendly {
		if strings.Contains(msg, f.match) {
			return f.message
		}
	}
	if strings.Contains(strings.ToLower(msg), "timeout") {
		return "The sign-in request timed out. Please try again."
	}
	return msg
}
