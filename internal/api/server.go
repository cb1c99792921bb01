// Package api serves the review dashboard over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/engine"
	"github.com/Veraticus/transitoria/internal/store"
)

const (
	defaultMaxUpload   = 32 << 20
	shutdownTimeout    = 10 * time.Second
	readHeaderTimeout  = 10 * time.Second
	defaultAllowOrigin = "http://localhost:5173"
)

// Config configures the HTTP server.
type Config struct {
	Store        *store.Store
	Engine       *engine.Engine
	Logger       *slog.Logger
	Now          func() time.Time
	AllowOrigins []string
	JWTSecret    []byte
	TLS          *tls.Certificate
	Settings     config.AppSettings
	MaxUpload    int64
}

// Server exposes the store, the analysis engine and the time-shift series.
type Server struct {
	store    *store.Store
	engine   *engine.Engine
	logger   *slog.Logger
	now      func() time.Time
	router   *gin.Engine
	baseCtx  context.Context
	tlsCert  *tls.Certificate
	settings config.AppSettings
	secret   []byte
}

// New builds the router. ctx bounds background analysis runs.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("api server requires a transaction store")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{defaultAllowOrigin}
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = defaultMaxUpload
	}

	s := &Server{
		store:    cfg.Store,
		engine:   cfg.Engine,
		logger:   cfg.Logger,
		now:      cfg.Now,
		baseCtx:  ctx,
		settings: cfg.Settings,
		secret:   cfg.JWTSecret,
		tlsCert:  cfg.TLS,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = cfg.MaxUpload
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.Use(s.actorMiddleware())
	api.GET("/settings", s.getSettings)
	api.GET("/summary", s.getSummary)
	api.GET("/transactions", s.listTransactions)
	api.POST("/transactions/import", s.importFile)
	api.POST("/transactions/paste", s.importPasted)
	api.POST("/transactions/:id/approve", s.approve)
	api.POST("/transactions/:id/correct", s.correct)
	api.PUT("/transactions/:id/comment", s.setComment)
	api.POST("/demo", s.loadDemo)
	api.POST("/analysis", s.startAnalysis)
	api.GET("/analysis", s.analysisStatus)
	api.GET("/timeshift", s.timeShift)
	api.GET("/completeness", s.completeness)
	api.GET("/audit", s.auditLog)

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.tlsCert != nil {
			srv.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{*s.tlsCert},
				MinVersion:   tls.VersionTLS12,
			}
			s.logger.Info("HTTPS server listening", "addr", addr)
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	if s.engine != nil {
		s.engine.Stop()
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
