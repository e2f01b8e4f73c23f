package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// Verifier defaults.
const (
	DefaultJWKSRefresh = 15 * time.Minute
	DefaultLeeway      = 30 * time.Second
)

// signingMethods are the asymmetric algorithms the provider publishes keys for.
var signingMethods = []string{"RS256", "ES256"}

// VerifierConfig configures local access token verification.
type VerifierConfig struct {
	// JWKSURL is the provider's key set, e.g. <url>/auth/v1/.well-known/jwks.json.
	JWKSURL string
	// Issuer and Audience are checked when set.
	Issuer   string
	Audience string
	Leeway   time.Duration
	Refresh  time.Duration
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Verifier checks access token signatures against the provider's JWKS and
// returns the token subject.
type Verifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	audience string
	leeway   time.Duration
	logger   *zap.Logger
}

// NewVerifier starts a JWKS store that refreshes in the background. Startup
// does not fail when the provider is not reachable yet.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	if cfg.JWKSURL == "" {
		return nil, fmt.Errorf("jwks url is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	refresh := cfg.Refresh
	if refresh <= 0 {
		refresh = DefaultJWKSRefresh
	}

	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: timeout},
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("JWKS refresh failed", zap.String("url", cfg.JWKSURL), zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create jwks storage: %w", err)
	}
	kf, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("create keyfunc: %w", err)
	}
	return NewVerifierWithKeyfunc(kf, cfg.Issuer, cfg.Audience, cfg.Leeway, logger), nil
}

// NewVerifierWithKeyfunc builds a Verifier over an existing key source.
func NewVerifierWithKeyfunc(kf keyfunc.Keyfunc, issuer, audience string, leeway time.Duration, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if leeway <= 0 {
		leeway = DefaultLeeway
	}
	return &Verifier{
		jwks:     kf,
		issuer:   issuer,
		audience: audience,
		leeway:   leeway,
		logger:   logger.With(zap.String("component", "jwt_verifier")),
	}
}

// Subject verifies accessToken and returns its sub claim. Every failure
// wraps domain.ErrUnauthenticated.
func (v *Verifier) Subject(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", fmt.Errorf("missing access token: %w", domain.ErrUnauthenticated)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(signingMethods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(accessToken, &claims, v.jwks.KeyfuncCtx(ctx), opts...)
	if err != nil || !token.Valid {
		v.logger.Debug("access token rejected", zap.Error(err))
		return "", fmt.Errorf("invalid access token: %w", domain.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("access token has no subject: %w", domain.ErrUnauthenticated)
	}
	return claims.Subject, nil
}
