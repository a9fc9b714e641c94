// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/internal/bootstrap"
	"github.com/AccelByte/extend-countdown-challenge/internal/config"
	"github.com/AccelByte/extend-countdown-challenge/internal/server"
	"github.com/AccelByte/extend-countdown-challenge/pkg/common"
	"github.com/AccelByte/extend-countdown-challenge/pkg/feed"
	"github.com/AccelByte/extend-countdown-challenge/pkg/handler"
	"github.com/AccelByte/extend-countdown-challenge/pkg/pipeline"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/AccelByte/extend-countdown-challenge/pkg/tracker"
	"github.com/cenkalti/backoff/v4"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	actionBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/action/builtin"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	grpcServer        *server.GRPCServer
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	store             state.Store
	hub               *feed.Hub
	tracker           *tracker.Tracker
	shutdownTelemetry func(context.Context) error
	stopRefresh       context.CancelFunc
	refreshDone       chan struct{}
	shutdownOnce      sync.Once
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. State store (Redis or SQLite)
// 2. Pipeline config (YAML configuration, built-in default if absent)
// 3. Live feed hub
// 4. Pipeline components (signal → rule → action)
// 5. Tracker (loads or creates the record, awards due bonuses)
// 6. Servers (gRPC health, HTTP API, metrics)
// 7. Telemetry (OpenTelemetry tracing)
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize the state store
	// ============================================================
	if err := app.initStore(ctx); err != nil {
		return nil, fmt.Errorf("failed to init %s store: %w", cfg.StoreBackend, err)
	}

	// ============================================================
	// Step 2: Load pipeline configuration
	// ============================================================
	def := cfg.Definition()
	pipelineConfig, err := pipeline.LoadConfigOrDefault(cfg.ConfigPath, def)
	if err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to load pipeline config from %s: %w", cfg.ConfigPath, err)
	}
	logrus.Infof("loaded pipeline configuration %q", pipelineConfig.Name)

	// ============================================================
	// Step 3 and 4: Feed hub and pipeline components
	// ============================================================
	app.hub = feed.NewHub()

	deps := &actionBuiltin.Dependencies{
		Publisher: app.hub,
	}

	manager, err := bootstrap.InitPipeline(pipelineConfig, deps)
	if err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to init pipeline: %w", err)
	}

	// ============================================================
	// Step 5: Load the countdown record
	// ============================================================
	app.tracker = tracker.New(app.store, tracker.Config{
		Definition: def,
		Manager:    manager,
		Hub:        app.hub,
	})

	snapshot, err := app.tracker.Load(ctx)
	if err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to load countdown state: %w", err)
	}
	logrus.Infof("%d days left (%d weeks), score %d / %d",
		snapshot.DaysLeft, snapshot.WeeksLeft, snapshot.CurrentScore, snapshot.TargetScore)

	// ============================================================
	// Step 6: Setup servers
	// ============================================================
	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, state.NewHealthChecker(app.store))
	if err := app.grpcServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, handler.NewAPI(app.tracker, app.hub))
	if err := app.httpServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 7: Setup telemetry
	// ============================================================
	shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0, common.TracerOptions{
		Enabled:        cfg.OtelEnabled,
		ZipkinEndpoint: cfg.ZipkinEndpoint,
	})
	if err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdownTelemetry

	logrus.Info("application initialized successfully")

	return app, nil
}

// initStore opens the configured state store.
func (a *App) initStore(ctx context.Context) error {
	switch a.cfg.StoreBackend {
	case config.BackendSQLite:
		store, err := state.NewSQLiteStore(a.cfg.SQLitePath, a.cfg.StateKey)
		if err != nil {
			return err
		}
		a.store = store
		logrus.Infof("SQLite state store opened at %s", a.cfg.SQLitePath)
		return nil
	default:
		if err := a.initRedis(ctx); err != nil {
			return err
		}
		a.store = state.NewRedisStore(a.redisClient, state.RedisStoreConfig{Key: a.cfg.StateKey})
		return nil
	}
}

// initRedis initializes the Redis client, retrying the first ping with
// exponential backoff.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisAddr(),
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.cfg.RedisRetryDelay()
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries)), ctx)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		policy,
	)

	if err != nil {
		client.Close()
		return err
	}

	a.redisClient = client
	logrus.Infof("Redis client initialized (%s)", a.cfg.RedisAddr())
	return nil
}

// closeStore releases the store after a failed start.
func (a *App) closeStore() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logrus.Errorf("state store close error: %v", err)
		}
	}
}
