// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/toeirei/redtoken/internal/logging"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// NewRouter registers the routes of h on a new gin engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(logging.With("component", "web")))
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	api := router.Group("/api")
	{
		api.GET("/tokens", h.ListTokens)
		api.POST("/tokens", h.CreateToken)
		api.GET("/tokens/:id", h.GetToken)
		api.DELETE("/tokens/:id", h.DeleteToken)
		api.GET("/check", h.Check)
	}
	router.NoRoute(NoRoute)
	return router
}

// requestLogger logs one line per request. The query string is left out
// because /api/check carries the checked value in it.
func requestLogger(log *clog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "err", c.Errors.Last().Err)
		}
		log.Info("http request", kv...)
	}
}

// Server runs the router until its context ends.
type Server struct {
	srv      *http.Server
	certFile string
	keyFile  string
	log      *clog.Logger
}

// NewServer returns a Server listening on host:port. TLS is used when both
// certFile and keyFile are set.
func NewServer(host string, port int, handler http.Handler, certFile, keyFile string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		certFile: certFile,
		keyFile:  keyFile,
		log:      logging.With("component", "web"),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.certFile != "" && s.keyFile != "" {
			err = s.srv.ServeTLS(ln, s.certFile, s.keyFile)
		} else {
			err = s.srv.Serve(ln)
		}
		errCh <- err
	}()
	s.log.Info("listening", "addr", ln.Addr().String(), "tls", s.certFile != "")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
