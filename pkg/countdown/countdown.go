// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"time"
)

const (
	// TotalDays is the length of the challenge.
	TotalDays = 693
	// TotalWeeks is informational only.
	TotalWeeks = 99
	// TotalScore is the display denominator for the score bar, not a cap.
	TotalScore = 149

	day = 24 * time.Hour
)

// Definition holds the fixed constants of one challenge.
type Definition struct {
	TotalDays  int `json:"totalDays"`
	TotalWeeks int `json:"totalWeeks"`
	TotalScore int `json:"totalScore"`
}

// Default is the standard 693-day challenge.
var Default = Definition{
	TotalDays:  TotalDays,
	TotalWeeks: TotalWeeks,
	TotalScore: TotalScore,
}

// ComputeElapsedDays returns the whole days between start and now.
// A start in the future yields 0.
func ComputeElapsedDays(now, start time.Time) int {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / day)
}

// Remaining returns the days and whole weeks left at the given elapsed day.
func (d Definition) Remaining(elapsedDays int) (daysLeft, weeksLeft int) {
	daysLeft = d.TotalDays - elapsedDays
	if daysLeft < 0 {
		daysLeft = 0
	}
	return daysLeft, daysLeft / 7
}

// Progress is the elapsed share of the challenge in percent, capped at 100.
func (d Definition) Progress(elapsedDays int) float64 {
	if d.TotalDays <= 0 {
		return 100
	}
	p := float64(elapsedDays) / float64(d.TotalDays) * 100
	if p > 100 {
		return 100
	}
	return p
}

// ScoreProgress is the score relative to TotalScore in percent. It is not
// clamped and exceeds 100 once more points than the reference are earned.
func (d Definition) ScoreProgress(score int) float64 {
	if d.TotalScore <= 0 {
		return 0
	}
	return float64(score) / float64(d.TotalScore) * 100
}
