// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"os"
	"strconv"
	"time"
)

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func GetEnvInt(key string, fallback int) int {
	str := GetEnv(key, strconv.Itoa(fallback))
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}

	return val
}

// GetEnvDuration parses a duration such as "30s", returning fallback when unset or invalid.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	val, err := time.ParseDuration(GetEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}

	return val
}
