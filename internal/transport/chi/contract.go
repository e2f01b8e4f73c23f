package chi

import (
	"context"

	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
)

// DateRangeSource computes the corpus date range, possibly from a cache.
type DateRangeSource interface {
	GlobalDateRange(ctx context.Context) (*result.DateRange, error)
}

// invalidator is implemented by date range sources that cache their result.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// UserResolver maps a bearer token to the verified user id.
type UserResolver interface {
	Subject(ctx context.Context, accessToken string) (string, error)
}

// IdentityProvider issues and revokes session tokens.
type IdentityProvider interface {
	PasswordGrant(ctx context.Context, email, password string) (*identity.TokenResponse, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*identity.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
}
