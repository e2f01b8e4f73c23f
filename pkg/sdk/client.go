package lexsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/lexsearch/internal/db"
	dbRedis "github.com/kailas-cloud/lexsearch/internal/db/redis"
	"github.com/kailas-cloud/lexsearch/internal/metrics"
	"github.com/kailas-cloud/lexsearch/internal/repository/casestore"
	"github.com/kailas-cloud/lexsearch/internal/repository/rangecache"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
	batchuc "github.com/kailas-cloud/lexsearch/internal/usecase/batch"
	casesuc "github.com/kailas-cloud/lexsearch/internal/usecase/cases"
	cataloguc "github.com/kailas-cloud/lexsearch/internal/usecase/catalog"
	documentsuc "github.com/kailas-cloud/lexsearch/internal/usecase/documents"
	healthuc "github.com/kailas-cloud/lexsearch/internal/usecase/health"
	redactionuc "github.com/kailas-cloud/lexsearch/internal/usecase/redaction"
	searchuc "github.com/kailas-cloud/lexsearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/lexsearch/internal/usecase/session"
	storageuc "github.com/kailas-cloud/lexsearch/internal/usecase/storage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultDateRangeTTL     = time.Hour
	defaultCatalogSize      = 256
	defaultCatalogTTL       = 5 * time.Minute
)

// Client is the lexsearch SDK entry point. Safe for concurrent use.
type Client struct {
	search    searchUseCase
	dateRange dateRangeSource
	batch     batchUseCase
	storage   storageUseCase
	documents documentUseCase
	redaction redactionUseCase
	catalog   catalogUseCase
	cases     caseUseCase
	session   sessionManager
	health    healthUseCase
	obs       *observer

	closers []func()
}

// New creates a Client for the backend at baseURL. The provided context is
// used for the initial cache and database connections.
func New(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dateRangeTTL: defaultDateRangeTTL,
		catalogSize:  defaultCatalogSize,
		catalogTTL:   defaultCatalogTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	if err := c.wire(ctx, baseURL, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) wire(ctx context.Context, baseURL string, cfg *clientConfig) error {
	var tokens backend.TokenSource
	var idp *identity.Client
	switch {
	case cfg.identityURL != "":
		var err error
		idp, err = identity.New(identity.Config{
			URL:        cfg.identityURL,
			APIKey:     cfg.identityKey,
			HTTPClient: cfg.httpClient,
			Timeout:    cfg.timeout,
		})
		if err != nil {
			return fmt.Errorf("lexsearch: %w", err)
		}
		mgr := sessionuc.New(idp, nil)
		c.session = mgr
		c.closers = append(c.closers, func() { _ = mgr.Close() })
		tokens = mgr
	case cfg.token != "":
		token := cfg.token
		tokens = backend.TokenFunc(func(context.Context) (string, error) { return token, nil })
	}

	client, err := backend.New(backend.Config{
		BaseURL:    baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Tokens:     tokens,
	})
	if err != nil {
		return fmt.Errorf("lexsearch: %w", err)
	}

	searchSvc := searchuc.New(client, nil)
	documentsSvc := documentsuc.New(client, nil)
	health := healthuc.New(client, nil)
	if idp != nil {
		health.WithCheck("identity", idp)
	}

	c.search = searchSvc
	c.dateRange = searchSvc
	c.batch = batchuc.New(client, nil).WithPollDefaults(cfg.pollInterval, cfg.pollMax)
	c.storage = storageuc.New(client, documentsSvc, nil)
	c.documents = documentsSvc
	c.redaction = redactionuc.New(client, nil)
	c.catalog = cataloguc.New(client, cfg.catalogSize, cfg.catalogTTL, metrics.CacheTotal)

	if cfg.cacheDriver != "" {
		store, err := createStore(ctx, cfg)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, store.Close)
		c.dateRange = rangecache.New(searchSvc, store, cfg.dateRangeTTL, metrics.CacheTotal, nil)
		health.WithCheck("cache", store)
	}

	if cfg.casesDSN != "" {
		pool, err := connectCases(ctx, cfg)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, pool.Close)
		repo := casestore.New(pool)
		c.cases = casesuc.New(repo)
		health.WithCheck("cases_db", repo)
	}

	c.health = health
	return nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "valkey", "redis":
		// Valkey speaks RESP, so one client serves both.
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.cacheAddrs,
			Password:   cfg.cachePass,
			KeyPrefix:  cfg.cachePrefix,
			Standalone: len(cfg.cacheAddrs) == 1,
		})
		if err != nil {
			return nil, fmt.Errorf("lexsearch: create %s store: %w", cfg.cacheDriver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("lexsearch: cache not ready: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("lexsearch: unknown cache driver %q", cfg.cacheDriver)
	}
}

func connectCases(ctx context.Context, cfg *clientConfig) (*pgxpool.Pool, error) {
	pool, err := casestore.Connect(ctx, cfg.casesDSN, cfg.casesMaxConns)
	if err != nil {
		return nil, fmt.Errorf("lexsearch: %w", err)
	}
	if err := casestore.New(pool).Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("lexsearch: %w", err)
	}
	return pool, nil
}

// Close releases all resources. The client must not be used afterwards.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.search, dateRange: c.dateRange, obs: c.obs}
}

// Batch returns the batch classification service.
func (c *Client) Batch() *BatchService {
	return &BatchService{svc: c.batch, obs: c.obs}
}

// Storage returns the raw document store service.
func (c *Client) Storage() *StorageService {
	return &StorageService{svc: c.storage, obs: c.obs}
}

// Documents returns the single-document service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.documents, obs: c.obs}
}

// Redaction returns the redaction service.
func (c *Client) Redaction() *RedactionService {
	return &RedactionService{svc: c.redaction, obs: c.obs}
}

// Catalog returns the metadata catalog service.
func (c *Client) Catalog() *CatalogService {
	return &CatalogService{svc: c.catalog, obs: c.obs}
}

// Cases returns the saved case service for one user. Every call fails with
// ErrNotConfigured unless WithCaseStore was given.
func (c *Client) Cases(userID string) *CaseService {
	return &CaseService{userID: userID, svc: c.cases, obs: c.obs}
}

// Auth returns the session service. Every call fails with ErrNotConfigured
// unless WithIdentity was given.
func (c *Client) Auth() *AuthService {
	return &AuthService{mgr: c.session, obs: c.obs}
}

var errNoCases = fmt.Errorf("%w: case store (use WithCaseStore)", ErrNotConfigured)

var errNoIdentity = fmt.Errorf("%w: identity provider (use WithIdentity)", ErrNotConfigured)
