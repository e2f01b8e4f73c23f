package chi

import (
	"errors"
	"net/http"
	"time"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	domsession "github.com/kailas-cloud/lexsearch/internal/domain/session"
	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
	sessionuc "github.com/kailas-cloud/lexsearch/internal/usecase/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := domsession.ValidateCredentials(body.Email, body.Password); err != nil {
		s.handleError(w, r, err)
		return
	}
	tok, err := s.svc.Auth.PasswordGrant(r.Context(), body.Email, body.Password)
	if err != nil {
		s.identityError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionuc.FromToken(tok, time.Now()))
}

// Refresh handles POST /api/auth/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, codeInvalidParams, "refresh_token is required")
		return
	}
	tok, err := s.svc.Auth.RefreshGrant(r.Context(), body.RefreshToken)
	if err != nil {
		s.identityError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionuc.FromToken(tok, time.Now()))
}

// Logout handles POST /api/auth/logout for the bearer token on the request.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		s.handleError(w, r, domain.ErrUnauthenticated)
		return
	}
	if err := s.svc.Auth.Logout(r.Context(), token); err != nil {
		s.identityError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// identityError renders provider rejections with a display-ready message.
func (s *Server) identityError(w http.ResponseWriter, r *http.Request, err error) {
	var idErr *identity.Error
	if errors.As(err, &idErr) && errors.Is(err, domain.ErrUnauthenticated) {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, domsession.FriendlyMessage(idErr.Message))
		return
	}
	if errors.As(err, &idErr) {
		writeError(w, http.StatusBadGateway, codeBackendError, domsession.FriendlyMessage(idErr.Message))
		return
	}
	s.handleError(w, r, err)
}
