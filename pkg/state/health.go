// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthChecker provides store health check functionality
type HealthChecker struct {
	store Store
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(store Store) *HealthChecker {
	return &HealthChecker{store: store}
}

// Check performs a store health check
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logrus.Errorf("state store health check failed: %v", err)
		return err
	}

	logrus.Debugf("state store health check passed")
	return nil
}

// IsHealthy returns true if the store is accessible
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
