// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/handler"
	"github.com/AccelByte/extend-countdown-challenge/pkg/metrics"
	"github.com/AccelByte/extend-countdown-challenge/pkg/tracker"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// fakeChecker reports a settable health
type fakeChecker struct {
	healthy atomic.Bool
}

func (c *fakeChecker) IsHealthy(ctx context.Context) bool {
	return c.healthy.Load()
}

func TestGRPCServer_HealthFollowsStore(t *testing.T) {
	checker := &fakeChecker{}
	checker.healthy.Store(true)

	srv := NewGRPCServer(0, checker)
	srv.SetHealthInterval(20 * time.Millisecond)
	if err := srv.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer srv.Shutdown(context.Background())

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer conn.Close()
	client := grpc_health_v1.NewHealthClient(conn)

	waitForStatus(t, client, grpc_health_v1.HealthCheckResponse_SERVING)

	checker.healthy.Store(false)
	waitForStatus(t, client, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	checker.healthy.Store(true)
	waitForStatus(t, client, grpc_health_v1.HealthCheckResponse_SERVING)
}

func waitForStatus(t *testing.T, client grpc_health_v1.HealthClient, want grpc_health_v1.HealthCheckResponse_ServingStatus) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	var got grpc_health_v1.HealthCheckResponse_ServingStatus
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
		cancel()
		if err == nil {
			got = resp.GetStatus()
			if got == want {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("health status = %v, expected %v", got, want)
}

func TestMetricsServer_ExposesCountdownMetrics(t *testing.T) {
	srv := NewMetricsServer(8080, "/metrics")
	if err := srv.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	metrics.ObserveSnapshot(12, 600)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"countdown_challenge_current_score 12", "countdown_challenge_days_left 600", "go_goroutines"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}

func TestHTTPServer_Heartbeat(t *testing.T) {
	srv := NewHTTPServer(8000, handler.NewAPI(tracker.New(nil, tracker.Config{}), nil))
	if err := srv.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: "/health", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/status", want: http.StatusServiceUnavailable},
		{method: http.MethodGet, path: "/nowhere", want: http.StatusNotFound},
		{method: http.MethodGet, path: "/api/challenge/start", want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, expected %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
