// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

func TestNewGame_TargetInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		g := NewGame(rng)
		if g.Target() < MinGuess || g.Target() > MaxGuess {
			t.Fatalf("Target() = %d, out of range", g.Target())
		}
		if g.GuessesRemaining() != MaxGuesses {
			t.Fatalf("GuessesRemaining() = %d, expected %d", g.GuessesRemaining(), MaxGuesses)
		}
		seen[g.Target()] = true
	}
	if len(seen) != 10 {
		t.Errorf("drew %d distinct targets, expected all 10", len(seen))
	}
}

func TestParseGuess(t *testing.T) {
	tests := []struct {
		raw       string
		expected  int
		expectErr bool
	}{
		{raw: "1", expected: 1},
		{raw: "10", expected: 10},
		{raw: " 7 ", expected: 7},
		{raw: "0", expectErr: true},
		{raw: "11", expectErr: true},
		{raw: "-3", expectErr: true},
		{raw: "3.5", expectErr: true},
		{raw: "abc", expectErr: true},
		{raw: "", expectErr: true},
	}

	for _, tt := range tests {
		got, err := ParseGuess(tt.raw)
		if tt.expectErr {
			if !errors.Is(err, ErrInvalidGuess) {
				t.Errorf("ParseGuess(%q) error = %v, expected ErrInvalidGuess", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.expected {
			t.Errorf("ParseGuess(%q) = %d, %v; expected %d", tt.raw, got, err, tt.expected)
		}
	}
}

func TestGuess_InvalidInputConsumesNothing(t *testing.T) {
	g := NewGameWithTarget(5)

	for _, raw := range []string{"0", "11", "x", "2.5", ""} {
		res, err := g.Guess(raw)
		if !errors.Is(err, ErrInvalidGuess) {
			t.Errorf("Guess(%q) error = %v, expected ErrInvalidGuess", raw, err)
		}
		if res.Outcome != OutcomeInvalid {
			t.Errorf("Guess(%q) outcome = %s, expected %s", raw, res.Outcome, OutcomeInvalid)
		}
		if res.Message != "Please enter a number between 1 and 10." {
			t.Errorf("Guess(%q) message = %q", raw, res.Message)
		}
	}

	if g.GuessesRemaining() != MaxGuesses {
		t.Errorf("GuessesRemaining() = %d, expected %d", g.GuessesRemaining(), MaxGuesses)
	}
	if g.Target() != 5 {
		t.Errorf("Target() = %d, expected 5", g.Target())
	}
}

func TestGuess_WinScenario(t *testing.T) {
	now := time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)
	st := state.New(now.Add(-30 * 24 * time.Hour))
	g := NewGameWithTarget(7)

	steps := []struct {
		raw       string
		outcome   Outcome
		remaining int
		message   string
	}{
		{"3", OutcomeTooLow, 2, "Too low! You have 2 guesses left."},
		{"9", OutcomeTooHigh, 1, "Too high! You have 1 guess left."},
		{"7", OutcomeWon, 0, "Congratulations, you guessed it! The number was 7."},
	}

	var last GuessResult
	for _, step := range steps {
		res, err := g.Guess(step.raw)
		if err != nil {
			t.Fatalf("Guess(%s) error = %v", step.raw, err)
		}
		if res.Outcome != step.outcome || res.GuessesRemaining != step.remaining {
			t.Errorf("Guess(%s) = %s/%d, expected %s/%d",
				step.raw, res.Outcome, res.GuessesRemaining, step.outcome, step.remaining)
		}
		if res.Message != step.message {
			t.Errorf("Guess(%s) message = %q, expected %q", step.raw, res.Message, step.message)
		}
		last = res
	}

	if GateStatus(st, now) != GateAvailable {
		t.Fatal("gate should be available before resolving")
	}

	entry, awarded := ResolveChallenge(st, last, now)
	if !awarded || entry.Points != 1 || entry.Reason != ReasonDailyChallenge {
		t.Errorf("ResolveChallenge() = %+v, %v; expected 1 point for %s", entry, awarded, ReasonDailyChallenge)
	}
	if st.CurrentScore != 1 || len(st.ScoreHistory) != 1 {
		t.Errorf("record = score %d, %d entries; expected 1, 1", st.CurrentScore, len(st.ScoreHistory))
	}
	if GateStatus(st, now) != GateCompleted {
		t.Error("gate should be completed after a win")
	}

	if _, err := g.Guess("7"); !errors.Is(err, ErrGameOver) {
		t.Errorf("Guess() after win error = %v, expected ErrGameOver", err)
	}
}

func TestGuess_LossScenario(t *testing.T) {
	now := time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)
	st := state.New(now.Add(-30 * 24 * time.Hour))
	g := NewGameWithTarget(4)

	var last GuessResult
	for _, raw := range []string{"1", "2", "3"} {
		res, err := g.Guess(raw)
		if err != nil {
			t.Fatalf("Guess(%s) error = %v", raw, err)
		}
		last = res
	}

	if last.Outcome != OutcomeLost || last.GuessesRemaining != 0 {
		t.Fatalf("final result = %s/%d, expected lost/0", last.Outcome, last.GuessesRemaining)
	}
	if last.Target != 4 || last.Message != "Out of guesses. The number was 4." {
		t.Errorf("final result does not reveal the target: %+v", last)
	}

	if _, awarded := ResolveChallenge(st, last, now); awarded {
		t.Error("a loss must not award points")
	}
	if st.CurrentScore != 0 || len(st.ScoreHistory) != 0 {
		t.Errorf("record changed: score %d, %d entries", st.CurrentScore, len(st.ScoreHistory))
	}
	if GateStatus(st, now) != GateCompleted {
		t.Error("gate should be completed after a loss")
	}
}

func TestResolveChallenge_UnresolvedIsNoop(t *testing.T) {
	now := time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)
	st := state.New(now)
	g := NewGameWithTarget(9)

	res, _ := g.Guess("2")
	ResolveChallenge(st, res, now)

	if st.LastChallengeDateKey != nil {
		t.Error("an abandoned session must leave the gate available")
	}
}

func TestGateStatus_DayChange(t *testing.T) {
	day1 := time.Date(2025, 5, 10, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)
	st := state.New(day1.Add(-24 * time.Hour))

	if GateStatus(st, day1) != GateAvailable {
		t.Error("gate should be available with no recorded attempt")
	}

	res, _ := NewGameWithTarget(1).Guess("1")
	ResolveChallenge(st, res, day1)

	if GateStatus(st, day1) != GateCompleted {
		t.Error("gate should be completed on the same day")
	}
	if GateStatus(st, day2) != GateAvailable {
		t.Error("gate should reopen on the next calendar day")
	}
	if st.ChallengeDateKey() != "Sat May 10 2025" {
		t.Errorf("ChallengeDateKey() = %q, expected %q", st.ChallengeDateKey(), "Sat May 10 2025")
	}
}
