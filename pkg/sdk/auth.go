package lexsearch

import (
	"context"
	"errors"

	domsession "github.com/kailas-cloud/lexsearch/internal/domain/session"
	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
)

// AuthService manages the client's signed-in session. While signed in, the
// session's access token is sent with every backend call and refreshed
// shortly before it expires.
type AuthService struct {
	mgr sessionManager
	obs *observer
}

// SignIn authenticates with email and password. Provider messages are
// rewritten into user-facing text.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (Session, error) {
	return call(s.obs, "auth_sign_in", func() (Session, error) {
		if s.mgr == nil {
			return Session{}, errNoIdentity
		}
		sess, err := s.mgr.SignIn(ctx, email, password)
		if err != nil {
			return Session{}, friendly(err)
		}
		return sess, nil
	})
}

// Restore resumes a session saved from an earlier SignIn.
func (s *AuthService) Restore(sess Session) error {
	if s.mgr == nil {
		return errNoIdentity
	}
	return s.mgr.Restore(sess)
}

// Session returns the current session, if any.
func (s *AuthService) Session() (Session, bool) {
	if s.mgr == nil {
		return Session{}, false
	}
	return s.mgr.Session()
}

// Token returns a valid access token, refreshing it when needed. It returns
// "" when nobody is signed in.
func (s *AuthService) Token(ctx context.Context) (string, error) {
	return call(s.obs, "auth_token", func() (string, error) {
		if s.mgr == nil {
			return "", errNoIdentity
		}
		return s.mgr.Token(ctx)
	})
}

// SignOut ends the session. The local session is dropped even when the
// provider call fails.
func (s *AuthService) SignOut(ctx context.Context) error {
	_, err := call(s.obs, "auth_sign_out", func() (struct{}, error) {
		if s.mgr == nil {
			return struct{}{}, errNoIdentity
		}
		return struct{}{}, s.mgr.SignOut(ctx)
	})
	return err
}

// ValidateCredentials checks an email and password before they are sent.
func ValidateCredentials(email, password string) error {
	return domsession.ValidateCredentials(email, password)
}

// AuthError is an identity provider rejection with a message fit for display.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

func friendly(err error) error {
	var idErr *identity.Error
	if !errors.As(err, &idErr) {
		return err
	}
	return &AuthError{Message: domsession.FriendlyMessage(idErr.Message), Err: err}
}
