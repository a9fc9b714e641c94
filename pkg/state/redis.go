// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// KeyPrefix is the prefix for all countdown state keys
	KeyPrefix = "countdown_challenge:state:"

	defaultUpdateRetries = 5
)

// RedisStore keeps the record as a JSON string under a single Redis key.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig
}

// RedisStoreConfig configures the Redis slot.
type RedisStoreConfig struct {
	// Key is the slot name; DefaultKey when empty.
	Key string
	// TTL is applied on every write; zero keeps the record forever.
	TTL time.Duration
	// MaxUpdateRetries bounds optimistic retries in Update.
	MaxUpdateRetries int
}

// NewRedisStore creates a new Redis-backed state store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.MaxUpdateRetries <= 0 {
		cfg.MaxUpdateRetries = defaultUpdateRetries
	}
	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

// makeKey creates the Redis key for a slot
func makeKey(slot string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, slot)
}

// Key returns the full Redis key of the slot.
func (r *RedisStore) Key() string {
	return makeKey(r.cfg.Key)
}

// Get retrieves the record from Redis.
func (r *RedisStore) Get(ctx context.Context) (*PersistedState, error) {
	return r.get(ctx, r.client)
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) get(ctx context.Context, cmd stringGetter) (*PersistedState, error) {
	data, err := cmd.Get(ctx, r.Key()).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.Errorf("failed to get state %s: %v", r.Key(), err)
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	st, err := Decode(data)
	if err != nil {
		logrus.Errorf("failed to decode state %s: %v", r.Key(), err)
		return nil, err
	}

	logrus.Debugf("retrieved state %s", r.Key())
	return st, nil
}

// Put overwrites the record in Redis.
func (r *RedisStore) Put(ctx context.Context, st *PersistedState) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.Key(), data, r.cfg.TTL).Err(); err != nil {
		logrus.Errorf("failed to set state %s: %v", r.Key(), err)
		return fmt.Errorf("failed to set state: %w", err)
	}

	logrus.Debugf("updated state %s", r.Key())
	return nil
}

// Update applies fn to the latest record under WATCH and commits with MULTI/EXEC.
// The transaction is retried when another writer changes the key in between.
func (r *RedisStore) Update(ctx context.Context, fn UpdateFunc) (*PersistedState, error) {
	key := r.Key()
	var result *PersistedState

	txf := func(tx *redis.Tx) error {
		st, err := r.get(ctx, tx)
		if err != nil {
			return err
		}

		if err := fn(st); err != nil {
			return err
		}

		data, err := Encode(st)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.cfg.TTL)
			return nil
		})
		if err != nil {
			return err
		}

		result = st
		return nil
	}

	for i := 0; i < r.cfg.MaxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logrus.Warnf("state %s changed during update (attempt %d/%d), retrying",
				key, i+1, r.cfg.MaxUpdateRetries)
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("%w: gave up after %d attempts", ErrConflict, r.cfg.MaxUpdateRetries)
}

// Delete removes the record from Redis.
func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.Key()).Err(); err != nil {
		logrus.Errorf("failed to delete state %s: %v", r.Key(), err)
		return fmt.Errorf("failed to delete state: %w", err)
	}

	logrus.Infof("deleted state %s", r.Key())
	return nil
}

// Ping verifies the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
