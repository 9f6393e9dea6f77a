// ABOUTME: Gateway orchestrator wiring the auth service and upstream proxy into one HTTP server
// ABOUTME: Manages store, hasher, token verifier, and server lifecycle

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/paperchat/paperchat-gateway/internal/auth"
	"github.com/paperchat/paperchat-gateway/internal/config"
	"github.com/paperchat/paperchat-gateway/internal/store"
)

// Gateway composes the credential store, password hasher, and token verifier
// behind the HTTP API. It holds no per-request mutable state: the store handle
// and configuration are read-only after construction and safe to share across
// concurrently handled requests.
type Gateway struct {
	config     *config.Config
	store      store.AccountStore
	hasher     *auth.PasswordHasher
	verifier   *auth.JWTVerifier
	upstream   *http.Client
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Gateway from the given configuration and account store.
// An empty JWT secret is a fatal configuration error.
func New(cfg *config.Config, accounts store.AccountStore) (*Gateway, error) {
	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("creating token verifier: %w", err)
	}

	g := &Gateway{
		config:   cfg,
		store:    accounts,
		hasher:   auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		verifier: verifier,
		upstream: &http.Client{Timeout: cfg.Upstream.Timeout},
		logger:   slog.Default().With("component", "gateway"),
	}

	g.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return g, nil
}

// Handler builds the route table. Exposed so tests can drive the full
// middleware chain through httptest without binding a socket.
func (g *Gateway) Handler() http.Handler {
	authMiddleware := auth.Middleware(g.verifier)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/register", g.handleRegister)
	mux.HandleFunc("/login", g.handleLogin)
	mux.HandleFunc("/healthz", g.handleHealth)

	// Bearer-protected routes
	mux.Handle("/users/me", authMiddleware(http.HandlerFunc(g.handleMe)))
	mux.Handle("/indexes", authMiddleware(http.HandlerFunc(g.handleIndexes)))
	mux.Handle("/qa/", authMiddleware(http.HandlerFunc(g.handleQA)))

	return mux
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (g *Gateway) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		g.logger.Info("HTTP server listening", "addr", g.httpServer.Addr)
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		g.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := g.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return err
	}
}

// handleHealth handles GET /healthz requests.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := g.store.CountAccounts(r.Context())
	if err != nil {
		g.logger.Error("health check failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"accounts": count,
	})
}

// sendJSONError writes a JSON error response.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
