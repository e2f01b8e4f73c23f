package chi

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	logpkg "github.com/kailas-cloud/lexsearch/internal/logger"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

// APIKeyHeader carries the BFF API key. Authorization is reserved for the
// caller's session token, which is forwarded to the backend.
const APIKeyHeader = "X-API-Key"

// exemptPaths are routes that bypass API key checks (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// APIKeyMiddleware returns a middleware that validates X-API-Key.
// If apiKeys is empty, key checks are disabled (pass-through).
func APIKeyMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var validKeys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			validKeys = append(validKeys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing "+APIKeyHeader+" header")
				return
			}
			for _, valid := range validKeys {
				if subtle.ConstantTimeCompare([]byte(key), valid) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid api key")
		})
	}
}

// ForwardToken attaches the caller's bearer token to the request context so
// backend calls made on its behalf carry it.
func ForwardToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			r = r.WithContext(backend.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}

type userIDKey struct{}

// UserIDFromContext returns the verified user id requireUser attached.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

func userID(r *http.Request) string { return UserIDFromContext(r.Context()) }

// requireUser resolves the caller from the bearer token. Case ownership is
// decided only by the verified subject, never by a client-supplied header.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.svc.Users == nil {
			s.handleError(w, r, fmt.Errorf("user verification: %w", domain.ErrNotConfigured))
			return
		}
		token, ok := bearerToken(r)
		if !ok {
			s.handleError(w, r, fmt.Errorf("missing bearer token: %w", domain.ErrUnauthenticated))
			return
		}
		sub, err := s.svc.Users.Subject(r.Context(), token)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey{}, sub)
		log := logpkg.FromContext(ctx, s.logger).With(zap.String("user_id", sub))
		next.ServeHTTP(w, r.WithContext(logpkg.WithContext(ctx, log)))
	})
}
