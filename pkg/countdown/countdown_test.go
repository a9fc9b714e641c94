// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"testing"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

func TestComputeElapsedDays(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{name: "same instant", now: start, expected: 0},
		{name: "just under a day", now: start.Add(24*time.Hour - time.Millisecond), expected: 0},
		{name: "exactly one day", now: start.Add(24 * time.Hour), expected: 1},
		{name: "328 days and change", now: start.Add(328*24*time.Hour + 5*time.Hour), expected: 328},
		{name: "start in the future clamps", now: start.Add(-3 * 24 * time.Hour), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeElapsedDays(tt.now, start)
			if got != tt.expected {
				t.Errorf("ComputeElapsedDays() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		elapsed       int
		expectedDays  int
		expectedWeeks int
	}{
		{elapsed: 0, expectedDays: 693, expectedWeeks: 99},
		{elapsed: 1, expectedDays: 692, expectedWeeks: 98},
		{elapsed: 686, expectedDays: 7, expectedWeeks: 1},
		{elapsed: 687, expectedDays: 6, expectedWeeks: 0},
		{elapsed: 693, expectedDays: 0, expectedWeeks: 0},
		{elapsed: 900, expectedDays: 0, expectedWeeks: 0},
	}

	for _, tt := range tests {
		days, weeks := Default.Remaining(tt.elapsed)
		if days != tt.expectedDays || weeks != tt.expectedWeeks {
			t.Errorf("Remaining(%d) = (%d, %d), expected (%d, %d)",
				tt.elapsed, days, weeks, tt.expectedDays, tt.expectedWeeks)
		}
	}
}

func TestProgress(t *testing.T) {
	if got := Default.Progress(0); got != 0 {
		t.Errorf("Progress(0) = %v, expected 0", got)
	}
	if got := Default.Progress(693); got != 100 {
		t.Errorf("Progress(693) = %v, expected 100", got)
	}
	if got := Default.Progress(1000); got != 100 {
		t.Errorf("Progress(1000) = %v, expected 100 (clamped)", got)
	}

	expected := float64(328) / float64(693) * 100
	if got := Default.Progress(328); got != expected {
		t.Errorf("Progress(328) = %v, expected %v", got, expected)
	}
}

func TestScoreProgress_NotClamped(t *testing.T) {
	if got := Default.ScoreProgress(298); got != 200 {
		t.Errorf("ScoreProgress(298) = %v, expected 200", got)
	}
}

func TestSummarize(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(14*24*time.Hour + time.Hour)
	st := state.New(start)
	AddScore(st, 1, ReasonDailyChallenge, now)
	st.SetChallengeDateKey(DateKey(now))

	snap := Summarize(st, Default, now)

	if snap.ElapsedDays != 14 {
		t.Errorf("ElapsedDays = %d, expected 14", snap.ElapsedDays)
	}
	if snap.DaysLeft != 679 || snap.WeeksLeft != 97 {
		t.Errorf("DaysLeft/WeeksLeft = %d/%d, expected 679/97", snap.DaysLeft, snap.WeeksLeft)
	}
	if snap.CurrentScore != 1 || snap.TargetScore != 149 {
		t.Errorf("score = %d/%d, expected 1/149", snap.CurrentScore, snap.TargetScore)
	}
	if snap.ScoreLabel != "Current score: 1 / 149" {
		t.Errorf("ScoreLabel = %q", snap.ScoreLabel)
	}
	if snap.Gate != GateCompleted {
		t.Errorf("Gate = %s, expected %s", snap.Gate, GateCompleted)
	}
	if snap.GateButton != "Completed today" {
		t.Errorf("GateButton = %q, expected %q", snap.GateButton, "Completed today")
	}
}
