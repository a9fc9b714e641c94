package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AccelByte/extend-countdown-challenge/pkg/common"
	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
)

// GuessRequest is the body of POST /api/challenge/guess. Guess is the raw
// text the player typed; a bare JSON number is accepted too.
type GuessRequest struct {
	Guess json.RawMessage `json:"guess"`
}

// Text returns the submitted guess as raw text
func (g GuessRequest) Text() string {
	raw := bytes.TrimSpace(g.Guess)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// StartChallenge opens a minigame session when today's gate is available
func (a *API) StartChallenge(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromRequest(r, "API.StartChallenge")
	defer scope.Finish()

	result, err := a.tracker.StartChallenge(scope.Ctx)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Infof("challenge not started: %v", err)
		Error(w, statusFor(err), err.Error())
		return
	}

	scope.TraceEvent("challenge started")
	JSON(w, http.StatusOK, result)
}

// SubmitGuess submits one guess to the active session
func (a *API) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromRequest(r, "API.SubmitGuess")
	defer scope.Finish()

	var req GuessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGuessBody)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := a.tracker.Guess(scope.Ctx, req.Text())
	if err != nil {
		if !errors.Is(err, countdown.ErrInvalidGuess) {
			scope.TraceError(err)
		}
		scope.Log.Infof("guess rejected: %v", err)
		Error(w, statusFor(err), err.Error())
		return
	}

	scope.SetAttributes("challenge.outcome", string(result.Outcome))
	if result.Outcome.Resolved() {
		scope.Log.Infof("challenge resolved: %s", result.Outcome)
	}
	JSON(w, http.StatusOK, result)
}
