// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	logrus.Info("application started successfully")

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return a.Shutdown(context.WithoutCancel(ctx))
}

// Start starts the servers and the countdown refresh loop without blocking.
// When a server fails to start, everything already running is shut down and
// the store is closed before the error is returned.
func (a *App) Start(ctx context.Context) error {
	starters := []struct {
		name  string
		start func(context.Context) error
	}{
		{"gRPC", a.grpcServer.Start},
		{"HTTP", a.httpServer.Start},
		{"metrics", a.metricsServer.Start},
	}
	for _, s := range starters {
		if err := s.start(ctx); err != nil {
			logrus.Errorf("%s server failed to start: %v", s.name, err)
			a.Shutdown(context.WithoutCancel(ctx))
			return fmt.Errorf("start %s server: %w", s.name, err)
		}
	}

	refreshCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.stopRefresh = cancel
	a.refreshDone = make(chan struct{})
	go func() {
		defer close(a.refreshDone)
		a.tracker.Run(refreshCtx, a.cfg.RefreshInterval)
	}()

	return nil
}

// Shutdown gracefully shuts down all application components.
//
// ============================================================
// DEVELOPER: Shutdown order is critical
// ============================================================
// Components are shut down in reverse dependency order:
// 1. Stop the countdown refresh loop
// 2. Stop accepting new requests (gRPC, HTTP and metrics servers)
// 3. Close the state store (Redis or SQLite)
// 4. Flush telemetry data (OpenTelemetry)
//
// IMPORTANT: Shutdown errors are logged but don't stop the
// shutdown sequence. Each component gets a chance to clean up.
// Calls after the first are no-ops.
// ============================================================
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() { a.shutdown(ctx) })
	return nil
}

func (a *App) shutdown(ctx context.Context) {
	logrus.Info("shutting down application...")

	// ============================================================
	// Step 1: Stop the refresh loop
	// ============================================================
	if a.stopRefresh != nil {
		a.stopRefresh()
		<-a.refreshDone
	}

	// ============================================================
	// Step 2: Shutdown servers (stop accepting new requests)
	// ============================================================
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		logrus.Errorf("gRPC server shutdown error: %v", err)
	}
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		logrus.Errorf("metrics server shutdown error: %v", err)
	}

	// ============================================================
	// Step 3: Close the state store
	// ============================================================
	a.closeStore()

	// ============================================================
	// Step 4: Flush telemetry data
	// ============================================================
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
}
