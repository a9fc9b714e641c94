// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound indicates that the durable slot holds no record yet.
	ErrNotFound = errors.New("state not found")

	// ErrCorrupt indicates that the stored record cannot be trusted.
	ErrCorrupt = errors.New("state is corrupt")

	// ErrConflict indicates that a concurrent writer kept changing the record during Update.
	ErrConflict = errors.New("state changed concurrently")
)

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "countdownState"

// UpdateFunc mutates the latest record inside Store.Update.
type UpdateFunc func(st *PersistedState) error

// Store is a durable key-value slot holding exactly one PersistedState.
type Store interface {
	// Get returns the stored record, ErrNotFound when absent or ErrCorrupt when unreadable.
	Get(ctx context.Context) (*PersistedState, error)

	// Put overwrites the slot with the full record.
	Put(ctx context.Context, st *PersistedState) error

	// Update re-reads the latest record, applies fn and writes the result back
	// atomically with respect to other writers of the same slot.
	Update(ctx context.Context, fn UpdateFunc) (*PersistedState, error)

	// Delete removes the record.
	Delete(ctx context.Context) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases the backing connection.
	Close() error
}

// LoadOrInit loads the record from the store. When the slot is empty or holds
// corrupt data, a fresh record starting at now is created and persisted.
// The boolean result reports whether a fresh record was created.
func LoadOrInit(ctx context.Context, store Store, now time.Time) (*PersistedState, bool, error) {
	st, err := store.Get(ctx)
	switch {
	case err == nil:
		return st, false, nil
	case errors.Is(err, ErrNotFound):
		logrus.Infof("no existing countdown state, starting a new challenge at %s", now.Format(time.RFC3339))
	case errors.Is(err, ErrCorrupt):
		logrus.Warnf("stored countdown state is corrupt, reinitializing: %v", err)
	default:
		return nil, false, fmt.Errorf("failed to load state: %w", err)
	}

	st = New(now)
	if err := store.Put(ctx, st); err != nil {
		return nil, false, fmt.Errorf("failed to persist new state: %w", err)
	}

	return st, true, nil
}
