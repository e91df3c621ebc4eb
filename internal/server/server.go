package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/35C4n0r/cord-mark/internal/config"
	"github.com/35C4n0r/cord-mark/internal/identity"
	"github.com/35C4n0r/cord-mark/internal/ledger"
	"github.com/35C4n0r/cord-mark/internal/server/handlers"
	"github.com/35C4n0r/cord-mark/internal/server/middleware"
)

type Server struct {
	pool       *pgxpool.Pool
	store      *ledger.Store
	config     *config.ServerEnvironment
	logger     *slog.Logger
	router     *chi.Mux
	keyManager *identity.KeyManager
	signingKey jwk.Key
	jwkSet     jwk.Set
}

func NewServer(
	pool *pgxpool.Pool,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) (*Server, error) {
	server := &Server{
		pool:   pool,
		store:  ledger.NewStore(pool, logger),
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
	}

	if err := server.initSigningKey(); err != nil {
		return nil, err
	}

	if err := server.initKeyManager(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize KeyManager: %w", err)
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server, nil
}

// initSigningKey loads the server's private signing key and prepares the
// public JWK set served at /.well-known/jwks.json.
func (s *Server) initSigningKey() error {
	key, err := identity.LoadPrivateKey(s.config.SigningKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}

	set, err := identity.PublicJWKSet(key)
	if err != nil {
		return fmt.Errorf("failed to build JWK set: %w", err)
	}

	did, err := identity.DIDFromKey(key)
	if err != nil {
		return fmt.Errorf("failed to derive server DID: %w", err)
	}

	s.signingKey = key
	s.jwkSet = set
	s.logger.Info("signing key loaded",
		slog.String("did", did))

	return nil
}

// initKeyManager creates and initializes the KeyManager used to resolve
// verification keys for other parties.
func (s *Server) initKeyManager(ctx context.Context) error {
	keyManagerConfig := identity.KeyManagerConfig{
		JWKSEndpoints:      s.config.JWKSEndpoints,
		ManualKeysDir:      s.config.ManualKeysDir,
		MinRefreshInterval: s.config.JWKCacheMinRefresh,
		MaxRefreshInterval: s.config.JWKCacheMaxRefresh,
	}

	keyManager, err := identity.NewKeyManager(ctx, keyManagerConfig, s.logger)
	if err != nil {
		return err
	}

	s.keyManager = keyManager
	s.logger.Info("KeyManager initialized successfully",
		slog.Int("jwks_endpoints", len(s.config.JWKSEndpoints)))

	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RequestSizeLimit(s.config.MaxRequestBytes))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", handlers.HandleHealth)
	s.router.Get("/ready", handlers.HandleReadiness(s.pool))
	s.router.Get("/version", handlers.HandleVersion("mark-server"))

	s.router.Route("/v1/marks", func(r chi.Router) {
		r.Post("/verify", handlers.HandleVerify(s.keyManager))
		r.Post("/anchor", handlers.HandleAnchor(s.store))
		r.Get("/{streamId}", handlers.HandleQuery(s.store))
		r.Delete("/{streamId}", handlers.HandleRevoke(s.store))
	})

	s.router.Get("/.well-known/jwks.json", handlers.HandleJWKS(s.jwkSet))
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

func (s *Server) DatabaseShutdown() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("database connection closed")
	}
}
