// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/sirupsen/logrus"
)

const (
	// MinGuess and MaxGuess bound both the target and valid guesses.
	MinGuess = 1
	MaxGuess = 10
	// MaxGuesses is the number of attempts per session.
	MaxGuesses = 3
	// DailyChallengePoints is awarded for a win.
	DailyChallengePoints = 1
)

var (
	// ErrInvalidGuess is returned for input that is not an integer in [MinGuess, MaxGuess].
	ErrInvalidGuess = errors.New("guess must be an integer between 1 and 10")

	// ErrGameOver is returned when guessing after the session was resolved.
	ErrGameOver = errors.New("game is already over")
)

// Outcome is the result of a single guess.
type Outcome string

const (
	OutcomeInvalid Outcome = "invalid"
	OutcomeTooLow  Outcome = "too_low"
	OutcomeTooHigh Outcome = "too_high"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
)

// Resolved reports whether the outcome ends the session.
func (o Outcome) Resolved() bool {
	return o == OutcomeWon || o == OutcomeLost
}

// GuessResult describes the effect of one guess. Target is only set once
// the session is resolved.
type GuessResult struct {
	Outcome          Outcome `json:"outcome"`
	GuessesRemaining int     `json:"guessesRemaining"`
	Target           int     `json:"target,omitempty"`
	Message          string  `json:"message"`
}

// Game is one number-guessing session.
type Game struct {
	target    int
	remaining int
	outcome   Outcome
}

// NewGame draws a target uniformly from [MinGuess, MaxGuess].
func NewGame(rng *rand.Rand) *Game {
	return NewGameWithTarget(rng.Intn(MaxGuess-MinGuess+1) + MinGuess)
}

// NewGameWithTarget starts a session with a known target.
func NewGameWithTarget(target int) *Game {
	return &Game{
		target:    target,
		remaining: MaxGuesses,
	}
}

// GuessesRemaining returns the attempts left.
func (g *Game) GuessesRemaining() int {
	return g.remaining
}

// Target returns the hidden number.
func (g *Game) Target() int {
	return g.target
}

// Over reports whether the session has been won or lost.
func (g *Game) Over() bool {
	return g.outcome.Resolved()
}

// IntroMessage is shown when a session starts.
func (g *Game) IntroMessage() string {
	return fmt.Sprintf("You have %d guesses.", g.remaining)
}

// ParseGuess parses raw user input as an integer in [MinGuess, MaxGuess].
func ParseGuess(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidGuess
	}
	if n < MinGuess || n > MaxGuess {
		return 0, ErrInvalidGuess
	}
	return n, nil
}

// Guess applies one attempt. Invalid input consumes nothing and leaves the
// target untouched.
func (g *Game) Guess(raw string) (GuessResult, error) {
	if g.Over() {
		return GuessResult{Outcome: g.outcome, Target: g.target}, ErrGameOver
	}

	n, err := ParseGuess(raw)
	if err != nil {
		return GuessResult{
			Outcome:          OutcomeInvalid,
			GuessesRemaining: g.remaining,
			Message:          fmt.Sprintf("Please enter a number between %d and %d.", MinGuess, MaxGuess),
		}, err
	}

	g.remaining--

	switch {
	case n == g.target:
		g.outcome = OutcomeWon
		return GuessResult{
			Outcome:          OutcomeWon,
			GuessesRemaining: g.remaining,
			Target:           g.target,
			Message:          fmt.Sprintf("Congratulations, you guessed it! The number was %d.", g.target),
		}, nil
	case g.remaining > 0:
		outcome, hint := OutcomeTooHigh, "Too high"
		if n < g.target {
			outcome, hint = OutcomeTooLow, "Too low"
		}
		noun := "guesses"
		if g.remaining == 1 {
			noun = "guess"
		}
		return GuessResult{
			Outcome:          outcome,
			GuessesRemaining: g.remaining,
			Message:          fmt.Sprintf("%s! You have %d %s left.", hint, g.remaining, noun),
		}, nil
	default:
		g.outcome = OutcomeLost
		return GuessResult{
			Outcome:          OutcomeLost,
			GuessesRemaining: 0,
			Target:           g.target,
			Message:          fmt.Sprintf("Out of guesses. The number was %d.", g.target),
		}, nil
	}
}

// ResolveChallenge closes today's gate for a resolved session and awards the
// daily point on a win. Unresolved results leave the record untouched.
func ResolveChallenge(st *state.PersistedState, result GuessResult, now time.Time) (state.ScoreEntry, bool) {
	if !result.Outcome.Resolved() {
		return state.ScoreEntry{}, false
	}

	st.SetChallengeDateKey(DateKey(now))
	logrus.Debugf("daily challenge %s on %s", result.Outcome, DateKey(now))

	if result.Outcome != OutcomeWon {
		return state.ScoreEntry{}, false
	}
	return AddScore(st, DailyChallengePoints, ReasonDailyChallenge, now)
}
