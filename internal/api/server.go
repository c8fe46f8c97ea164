// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the HTTP router, the middleware chain and every domain
handler into a runnable [http.Server].

Only this package and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 503 while a dependency is down.
	Readiness http.HandlerFunc

	// Auth serves signup and the code-for-token exchange.
	Auth *auth.Handler

	// Users serves /users and /users/me.
	Users *account.Handler

	Categories *reference.Handler
	Genres     *reference.Handler

	// Titles, Reviews and Comments form the nested catalogue tree.
	Titles   *title.Handler
	Reviews  *review.Handler
	Comments *comment.Handler
}

// RateLimits configures the global and /auth token buckets.
type RateLimits struct {
	RPS       float64
	Burst     int
	AuthRPS   float64
	AuthBurst int
}

// DefaultRateLimits are the production buckets.
var DefaultRateLimits = RateLimits{
	RPS:       constants.DefaultRateLimitRPS,
	Burst:     constants.DefaultRateLimitBurst,
	AuthRPS:   constants.AuthRateLimitRPS,
	AuthBurst: constants.AuthRateLimitBurst,
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers all route groups.

The context bounds the lifetime of the rate limiters' sweepers.
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolver middleware.TokenResolver, limits RateLimits, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, limits.RPS, limits.Burst))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(resolver))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	authLimiter := middleware.RateLimit(context, limits.AuthRPS, limits.AuthBurst)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(authRoute chi.Router) {
			authRoute.Use(authLimiter)
			authRoute.Mount("/", h.Auth.Routes())
		})
		api.Mount("/users", h.Users.Routes())
		api.Mount("/categories", h.Categories.Routes())
		api.Mount("/genres", h.Genres.Routes())
		api.Mount("/titles", h.Titles.Routes(func(titleRoute chi.Router) {
			h.Reviews.Register(titleRoute, h.Comments.Register)
		}))
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the root router.
func (s *Server) Handler() http.Handler { return s.router }

// # Server Lifecycle

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
