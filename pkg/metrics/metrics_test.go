// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(PointsAwardedTotal); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	for _, c := range Collectors()[1:] {
		if err := registry.Register(c); err != nil {
			t.Errorf("Register() error = %v", err)
		}
	}
}

func TestObserveSnapshot(t *testing.T) {
	ObserveSnapshot(26, 365)

	if got := testutil.ToFloat64(CurrentScore); got != 26 {
		t.Errorf("CurrentScore = %v, expected 26", got)
	}
	if got := testutil.ToFloat64(DaysLeft); got != 365 {
		t.Errorf("DaysLeft = %v, expected 365", got)
	}
}

func TestPointsAwardedTotal(t *testing.T) {
	before := testutil.ToFloat64(PointsAwardedTotal.WithLabelValues("day-328-bonus"))
	PointsAwardedTotal.WithLabelValues("day-328-bonus").Add(25)

	if got := testutil.ToFloat64(PointsAwardedTotal.WithLabelValues("day-328-bonus")); got != before+25 {
		t.Errorf("PointsAwardedTotal = %v, expected %v", got, before+25)
	}
}
