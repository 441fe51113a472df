// Package httpapi serves kbase over an authenticated HTTP JSON API.
//
// Every route under /api/v1 requires a bearer token whose subject is the
// acting user; handlers never read a user id from the request body. The
// service is the same one the CLI and MCP server use, so all three surfaces
// share validation, search and privacy behaviour.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpl-au/kbase/internal/auth"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/version"
)

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to a service.
type Server struct {
	svc      service.Service
	resolver auth.Resolver
	engine   *gin.Engine
}

// New builds the router. Requests are authenticated with resolver.
func New(svc service.Service, resolver auth.Resolver) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{svc: svc, resolver: resolver, engine: gin.New()}
	s.engine.Use(gin.Recovery(), Metrics(), RequestLog())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Short()})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api/v1")
	api.Use(Auth(resolver))
	{
		notes := api.Group("/notes")
		notes.GET("", s.listNotes)
		notes.POST("", s.createNote)
		notes.GET("/:id", s.getNote)
		notes.PATCH("/:id", s.updateNote)
		notes.DELETE("/:id", s.deleteNote)
		notes.PUT("/:id/tags/:name", s.attachTag)
		notes.DELETE("/:id/tags/:name", s.detachTag)

		api.GET("/search", s.search)
		api.GET("/history", s.history)

		tags := api.Group("/tags")
		tags.GET("", s.listTags)
		tags.POST("", s.createTag)
		tags.POST("/formalise", s.formaliseTags)
		tags.DELETE("/:name", s.deleteTag)

		folders := api.Group("/folders")
		folders.GET("", s.folderTree)
		folders.POST("", s.createFolder)
		folders.PATCH("/:id", s.updateFolder)
		folders.DELETE("/:id", s.deleteFolder)

		api.GET("/privacy", s.getPrivacy)
		api.PUT("/privacy", s.setPrivacy)
		api.POST("/ai/:action", s.assist)

		plugins := api.Group("/plugins")
		plugins.GET("", s.listPlugins)
		plugins.POST("", s.installPlugin)
		plugins.PATCH("/:name", s.togglePlugin)
		plugins.DELETE("/:name", s.removePlugin)
	}
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("kbase HTTP API ready", "addr", addr, "version", version.Short())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
