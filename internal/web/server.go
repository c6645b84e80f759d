// Package web serves the search engine to browsers as a JSON API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cosmofeed/cosmofeed/internal/searcher"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Addr: ":8080"}
}

// Server is the HTTP API around the search engine.
type Server struct {
	httpServer *http.Server
	searcher   *searcher.Searcher
	logger     *slog.Logger
}

// NewServer builds the router and wires the handlers.
func NewServer(cfg Config, srch *searcher.Searcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s := &Server{
		searcher: srch,
		logger:   logger,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/api/search", s.handleSearch)

	return s
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
