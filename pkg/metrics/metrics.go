// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics defines the Prometheus collectors of the countdown challenge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "countdown_challenge"

var (
	// PointsAwardedTotal counts points awarded, labelled by reason.
	PointsAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Total number of points awarded",
		},
		[]string{"reason"},
	)

	// GuessesTotal counts minigame guesses, labelled by outcome.
	GuessesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Total number of minigame guesses",
		},
		[]string{"outcome"},
	)

	// ChallengesResolvedTotal counts resolved daily challenges, labelled by result.
	ChallengesResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_resolved_total",
			Help:      "Total number of resolved daily challenges",
		},
		[]string{"result"},
	)

	// CurrentScore mirrors the persisted score.
	CurrentScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_score",
		Help:      "Current challenge score",
	})

	// DaysLeft mirrors the remaining countdown days.
	DaysLeft = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "days_left",
		Help:      "Days left in the challenge",
	})

	// StoreErrorsTotal counts failed store operations, labelled by operation.
	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of failed state store operations",
		},
		[]string{"operation"},
	)
)

// Collectors returns every domain collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		PointsAwardedTotal,
		GuessesTotal,
		ChallengesResolvedTotal,
		CurrentScore,
		DaysLeft,
		StoreErrorsTotal,
	}
}

// ObserveSnapshot updates the gauges from the latest display values.
func ObserveSnapshot(score, daysLeft int) {
	CurrentScore.Set(float64(score))
	DaysLeft.Set(float64(daysLeft))
}
