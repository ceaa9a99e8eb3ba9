// Package server hosts the HTTP API: a gin engine wrapped in an
// http.Server with h2c support, plus shared response helpers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/skillsenselab/identity/logger"
	"github.com/skillsenselab/identity/server/middleware"
)

// Server wraps the gin engine and its lifecycle.
type Server struct {
	cfg    Config
	engine *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// New builds a server with the baseline middleware chain installed:
// recovery, request IDs, request logging and (when enabled) CORS.
func New(cfg Config, log *logger.Logger, debug bool) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("server")

	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logging(log))
	if cfg.CORS.Enabled {
		engine.Use(middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		}))
	}

	return &Server{
		cfg:    cfg,
		engine: engine,
		log:    log,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      h2c.NewHandler(engine, &http2.Server{}),
			ReadTimeout:  cfg.duration(cfg.ReadTimeout),
			WriteTimeout: cfg.duration(cfg.WriteTimeout),
			IdleTimeout:  cfg.duration(cfg.IdleTimeout),
		},
	}
}

// Engine exposes the router for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.log.Info("http server listening", map[string]interface{}{"addr": s.cfg.Addr()})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.duration(s.cfg.ShutdownTimeout))
	defer cancel()
	s.log.Info("http server shutting down")
	return s.http.Shutdown(ctx)
}
