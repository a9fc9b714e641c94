// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/handler"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// HTTPServer serves the countdown API and the live stream.
type HTTPServer struct {
	server   *http.Server
	router   chi.Router
	listener net.Listener
	port     int
	api      *handler.API
}

// NewHTTPServer creates a new HTTP server instance.
func NewHTTPServer(port int, api *handler.API) *HTTPServer {
	return &HTTPServer{
		port: port,
		api:  api,
	}
}

// Setup builds the router.
//
// ============================================================
// DEVELOPER: HTTP routes
// ============================================================
// Routes are registered by handler.API.RegisterRoutes:
// - GET  /api/status
// - GET  /api/history
// - POST /api/challenge/start
// - POST /api/challenge/guess
// - GET  /api/stream (websocket)
// /health answers liveness probes before any routing.
// ============================================================
func (s *HTTPServer) Setup() error {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  logrus.StandardLogger(),
		NoColor: true,
	}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	s.api.RegisterRoutes(r)
	s.router = r

	// no WriteTimeout: the websocket stream is long-lived
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return nil
}

// Handler returns the router once Setup has run.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start binds the port and serves HTTP requests in the background.
func (s *HTTPServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	s.listener = lis

	go func() {
		logrus.Infof("HTTP server listening on %s", lis.Addr())
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()
	return nil
}

// Addr returns the listening address once started.
func (s *HTTPServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("HTTP server stopped")
	return nil
}
