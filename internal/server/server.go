package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/auth"
	"github.com/hongminglow/lifelink/internal/config"
	"github.com/hongminglow/lifelink/internal/http/handlers"
	"github.com/hongminglow/lifelink/internal/middleware"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/registry"
)

// BasePath is where the API is mounted, matching the real backend.
const BasePath = "/lifelink/api"

// Server wraps an http.Server with the development API routes.
type Server struct {
	inner   *http.Server
	handler http.Handler
}

// New wires up middleware and routes, seeds the admin account when
// configured, and returns a ready server.
func New(cfg config.StubConfig, reg *registry.Registry, logger *zap.Logger) (*Server, error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authHandler := handlers.NewAuthHandler(reg, tokens, logger)

	if cfg.AdminUsername != "" {
		if _, err := authHandler.Seed(models.User{
			Username: cfg.AdminUsername,
			FullName: "LifeLink Administrator",
			Email:    cfg.AdminUsername + "@lifelink.local",
			Roles:    models.NewRoleSet(models.RoleAdmin),
		}, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(reg, time.Now()).Register(r)
	r.Route(BasePath, func(api chi.Router) {
		authHandler.Register(api)
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(tokens))
			authHandler.RegisterProtected(protected)
			handlers.NewProfileHandler(reg).Register(protected)
			handlers.NewDonorHandler(reg).Register(protected)
			handlers.NewReceiverHandler(reg).Register(protected)
			handlers.NewAdminHandler(reg).Register(protected)
		})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer, handler: r}, nil
}

// Handler exposes the routed handler, e.g. for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
