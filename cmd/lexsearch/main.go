package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/config"
	"github.com/kailas-cloud/lexsearch/internal/db"
	dbRedis "github.com/kailas-cloud/lexsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/lexsearch/internal/logger"
	"github.com/kailas-cloud/lexsearch/internal/metrics"
	"github.com/kailas-cloud/lexsearch/internal/repository/casestore"
	"github.com/kailas-cloud/lexsearch/internal/repository/rangecache"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
	chiTransport "github.com/kailas-cloud/lexsearch/internal/transport/chi"
	"github.com/kailas-cloud/lexsearch/internal/transport/identity"
	batchuc "github.com/kailas-cloud/lexsearch/internal/usecase/batch"
	casesuc "github.com/kailas-cloud/lexsearch/internal/usecase/cases"
	cataloguc "github.com/kailas-cloud/lexsearch/internal/usecase/catalog"
	documentsuc "github.com/kailas-cloud/lexsearch/internal/usecase/documents"
	healthuc "github.com/kailas-cloud/lexsearch/internal/usecase/health"
	redactionuc "github.com/kailas-cloud/lexsearch/internal/usecase/redaction"
	searchuc "github.com/kailas-cloud/lexsearch/internal/usecase/search"
	storageuc "github.com/kailas-cloud/lexsearch/internal/usecase/storage"
	"github.com/kailas-cloud/lexsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting lexsearch BFF",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend_url", cfg.Backend.BaseURL),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("cases_enabled", cfg.Cases.Enabled()),
	)

	metrics.Register()
	ctx := context.Background()

	client, err := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	searchSvc := searchuc.New(client, logger)
	documentsSvc := documentsuc.New(client, logger)
	health := healthuc.New(client, logger)

	// Date range: KV-cached when a store is configured.
	var dateRange chiTransport.DateRangeSource = searchSvc
	if cfg.Cache.Enabled() {
		store := mustStore(ctx, cfg.Cache, logger)
		defer store.Close()
		dateRange = rangecache.New(searchSvc, store,
			time.Duration(cfg.Cache.DateRangeTTLSec)*time.Second, metrics.CacheTotal, logger)
		health.WithCheck("cache", store)
	}

	var casesSvc *casesuc.Service
	if cfg.Cases.Enabled() {
		pool, err := casestore.Connect(ctx, cfg.Cases.DSN, cfg.Cases.MaxConns)
		if err != nil {
			logger.Fatal("Failed to connect case store", zap.Error(err))
		}
		defer pool.Close()
		repo := casestore.New(pool)
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate case store", zap.Error(err))
		}
		casesSvc = casesuc.New(repo)
		health.WithCheck("cases_db", repo)
		logger.Info("Connected to case store")
	}

	// Pass a nil interface, not a typed nil pointer, when identity is off.
	var auth chiTransport.IdentityProvider
	var users chiTransport.UserResolver
	if cfg.Identity.URL != "" {
		idp, err := identity.New(identity.Config{URL: cfg.Identity.URL, APIKey: cfg.Identity.APIKey, Logger: logger})
		if err != nil {
			logger.Fatal("Failed to create identity client", zap.Error(err))
		}
		auth = idp
		users = idp
		health.WithCheck("identity", idp)
	}
	if cfg.Identity.JWKSURL != "" {
		verifier, err := identity.NewVerifier(ctx, identity.VerifierConfig{
			JWKSURL:  cfg.Identity.JWKSURL,
			Issuer:   cfg.Identity.Issuer,
			Audience: cfg.Identity.Audience,
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal("Failed to create token verifier", zap.Error(err))
		}
		users = verifier
	}

	server := chiTransport.NewServer(chiTransport.Services{
		Search:    searchSvc,
		DateRange: dateRange,
		Catalog: cataloguc.New(client, cfg.Cache.CatalogSize,
			time.Duration(cfg.Cache.CatalogTTLSec)*time.Second, metrics.CacheTotal),
		Batch: batchuc.New(client, logger).WithPollDefaults(
			time.Duration(cfg.Batch.PollIntervalMS)*time.Millisecond, cfg.Batch.MaxAttempts),
		Storage:   storageuc.New(client, documentsSvc, logger),
		Documents: documentsSvc,
		Redaction: redactionuc.New(client, logger),
		Cases:     casesSvc,
		Users:     users,
		Auth:      auth,
		Health:    health,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.APIKeyMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.ForwardToken)
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// mustStore connects the KV cache. Valkey and Redis share the RESP client.
func mustStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Addrs,
		Password:   cfg.Password,
		DB:         cfg.DB,
		KeyPrefix:  cfg.KeyPrefix,
		Standalone: cfg.Standalone,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Addrs))
	return store
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error":   "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits one log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
