// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yomira/booru/internal/core/comment"
	"github.com/yomira/booru/internal/core/pool"
	"github.com/yomira/booru/internal/core/post"
	"github.com/yomira/booru/internal/core/tag"
	"github.com/yomira/booru/internal/core/user"
	"github.com/yomira/booru/internal/platform/config"
	"github.com/yomira/booru/internal/platform/constants"
	"github.com/yomira/booru/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here and one RegisterRoutes call in NewServer.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// User handles registration, login, rank management, and the opaque
	// token / avatar lifecycle.
	User *user.Handler

	// Tag manages the tag catalogue: categories, implications, suggestions.
	Tag *tag.Handler

	// Pool manages ordered post collections and pool categories.
	Pool *pool.Handler

	// Post is the board's central resource: upload, edit, list/search,
	// favorites, scores, notes, and reverse image search.
	Post *post.Handler

	// Comment handles post comments and comment scoring.
	Comment *comment.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	rte := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	rte.Use(middleware.RequestID())
	rte.Use(middleware.StructuredLogger(log))
	rte.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	rte.Use(middleware.RateLimit(ctx))
	rte.Use(middleware.PanicRecovery(log))
	rte.Use(middleware.Authenticate(verifier))
	rte.Use(middleware.CORS(cfg))
	rte.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	rte.Get("/health", h.Liveness)
	rte.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix. Every
	// domain handler owns its own path prefixing via RegisterRoutes — no
	// other change to this function is required when a domain adds a route.
	rte.Route("/api/v1", func(api chi.Router) {
		h.User.RegisterRoutes(api)
		h.Tag.RegisterRoutes(api)
		h.Pool.RegisterRoutes(api)
		h.Post.RegisterRoutes(api)
		h.Comment.RegisterRoutes(api)
	})

	return &Server{
		router: rte,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           rte,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
