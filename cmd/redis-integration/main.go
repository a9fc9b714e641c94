// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

//go:build integration
// +build integration

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/common"
	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// This is a manual integration test for the Redis state store
// Run this with: go run -tags integration ./cmd/redis-integration
// Requires: Redis running on REDIS_HOST:REDIS_PORT (localhost:6379)

func main() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.Infof("Starting Redis integration test...")

	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr:     common.GetEnv("REDIS_HOST", "localhost") + ":" + common.GetEnv("REDIS_PORT", "6379"),
		Password: common.GetEnv("REDIS_PASSWORD", ""),
		DB:       common.GetEnvInt("REDIS_DB", 0),
	})
	defer client.Close()

	slot := fmt.Sprintf("integration-%d", time.Now().Unix())
	store := state.NewRedisStore(client, state.RedisStoreConfig{Key: slot, TTL: 10 * time.Minute})
	logrus.Infof("Testing with key: %s", store.Key())

	if err := store.Ping(ctx); err != nil {
		logrus.Fatalf("Redis not reachable: %v", err)
	}

	// Test 1: Load creates a fresh record
	logrus.Infof("\n=== Test 1: Load an empty slot ===")
	now := time.Now()
	st, fresh, err := state.LoadOrInit(ctx, store, now)
	if err != nil {
		logrus.Fatalf("LoadOrInit failed: %v", err)
	}
	if !fresh || st.CurrentScore != 0 {
		logrus.Fatalf("❌ expected a fresh record, got fresh=%v score=%d", fresh, st.CurrentScore)
	}
	logrus.Infof("✓ Fresh record started %s", st.StartDate.Format(time.RFC3339))

	// Test 2: Award through Update
	logrus.Infof("\n=== Test 2: Award the daily point ===")
	st, err = store.Update(ctx, func(st *state.PersistedState) error {
		countdown.AddScore(st, 1, countdown.ReasonDailyChallenge, now)
		st.SetChallengeDateKey(countdown.DateKey(now))
		return nil
	})
	if err != nil {
		logrus.Fatalf("Update failed: %v", err)
	}
	logrus.Infof("✓ Score now %d", st.CurrentScore)

	// Test 3: Concurrent writers merge
	logrus.Infof("\n=== Test 3: Concurrent writers ===")
	const writers = 5
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			_, err := store.Update(ctx, func(st *state.PersistedState) error {
				countdown.AddScore(st, 2, fmt.Sprintf("writer-%d", i), now)
				return nil
			})
			errs <- err
		}(i)
	}
	for i := 0; i < writers; i++ {
		if err := <-errs; err != nil {
			logrus.Warnf("writer failed: %v", err)
		}
	}

	merged, err := store.Get(ctx)
	if err != nil {
		logrus.Fatalf("Get failed: %v", err)
	}
	if merged.CurrentScore != countdown.SumPoints(merged.ScoreHistory) {
		logrus.Fatalf("❌ score %d does not match history sum %d", merged.CurrentScore, countdown.SumPoints(merged.ScoreHistory))
	}
	logrus.Infof("✓ Merged score %d over %d entries", merged.CurrentScore, len(merged.ScoreHistory))

	// Test 4: Corrupt record is reinitialized
	logrus.Infof("\n=== Test 4: Corrupt record ===")
	if err := client.Set(ctx, store.Key(), "{not json", time.Minute).Err(); err != nil {
		logrus.Fatalf("Set failed: %v", err)
	}
	st, fresh, err = state.LoadOrInit(ctx, store, now)
	if err != nil || !fresh || st.CurrentScore != 0 {
		logrus.Fatalf("❌ expected reinitialized record, got fresh=%v err=%v", fresh, err)
	}
	logrus.Infof("✓ Corrupt record reinitialized")

	// Cleanup
	if err := store.Delete(ctx); err != nil {
		logrus.Warnf("cleanup failed: %v", err)
	}

	logrus.Infof("\n✓ All Redis integration tests passed!")
}
