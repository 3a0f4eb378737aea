package web

import (
	"context"
	"net/http"
	"time"

	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/config"
	"github.com/dsmirnov/authkeeper/internal/server/models"
)

// Server is the HTTP front of the service. It owns the route table and the
// middleware chain; all decisions are delegated to the injected services.
type Server struct {
	srv          *http.Server
	logger       logging.Logger
	tokens       TokenVerifier
	sessions     AuthSessions
	users        UserAdmin
	tenants      TenantAdmin
	cookieDomain string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// NewServer wires handlers, middleware, and timeouts for the given
// dependencies.
func NewServer(cfg *config.Config, logger logging.Logger, tokens TokenVerifier,
	sessions AuthSessions, users UserAdmin, tenants TenantAdmin) *Server {
	s := &Server{
		logger:       logger.With("module", "web_server"),
		tokens:       tokens,
		sessions:     sessions,
		users:        users,
		tenants:      tenants,
		cookieDomain: cfg.CookieDomain,
		accessTTL:    cfg.AccessTokenValidityDuration,
		refreshTTL:   cfg.RefreshTokenValidityDuration,
	}

	s.srv = &http.Server{
		Addr:         cfg.EndpointAddr,
		Handler:      s.logRequests(s.routes()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	adminOnly := func(h http.HandlerFunc) http.Handler {
		return s.Authenticate(s.CanAccess(models.RoleAdmin)(h))
	}

	mux.Handle("POST /auth/register", http.HandlerFunc(s.handleRegister))
	mux.Handle("POST /auth/login", http.HandlerFunc(s.handleLogin))
	mux.Handle("GET /auth/self", s.Authenticate(http.HandlerFunc(s.handleSelf)))
	mux.Handle("POST /auth/refresh", s.ValidateRefreshToken(http.HandlerFunc(s.handleRefresh)))
	mux.Handle("POST /auth/logout", s.ValidateRefreshToken(http.HandlerFunc(s.handleLogout)))

	mux.Handle("POST /users", adminOnly(s.handleCreateUser))
	mux.Handle("GET /users", adminOnly(s.handleListUsers))
	mux.Handle("GET /users/{id}", adminOnly(s.handleGetUser))
	mux.Handle("PATCH /users/{id}", adminOnly(s.handleUpdateUser))
	mux.Handle("DELETE /users/{id}", adminOnly(s.handleDeleteUser))

	mux.Handle("POST /tenants", adminOnly(s.handleCreateTenant))
	mux.Handle("PATCH /tenants/{id}", adminOnly(s.handleUpdateTenant))
	mux.Handle("DELETE /tenants/{id}", adminOnly(s.handleDeleteTenant))
	mux.Handle("GET /tenants", http.HandlerFunc(s.handleListTenants))
	mux.Handle("GET /tenants/{id}", http.HandlerFunc(s.handleGetTenant))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error during shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
