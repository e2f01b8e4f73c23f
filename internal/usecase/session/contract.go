package session

import (
	"context"

	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
)

// Provider is the identity provider a Manager signs in against.
type Provider interface {
	PasswordGrant(ctx context.Context, email, password string) (*identity.TokenResponse, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*identity.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
}
