package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/feed"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/AccelByte/extend-countdown-challenge/pkg/tracker"

	"github.com/go-chi/chi/v5"
)

const (
	// maxGuessBody bounds the guess request body
	maxGuessBody = 1 << 10
)

// Tracker is the session the API drives
type Tracker interface {
	Status() (tracker.Status, error)
	History() ([]state.ScoreEntry, error)
	StartChallenge(ctx context.Context) (tracker.StartResult, error)
	Guess(ctx context.Context, raw string) (countdown.GuessResult, error)
}

// Subscriber is the source of live display events
type Subscriber interface {
	Subscribe() (<-chan feed.Event, func())
}

// API serves the display and input surfaces over HTTP
type API struct {
	tracker Tracker
	feed    Subscriber
}

// NewAPI creates the HTTP API. feed may be nil, which disables the stream.
func NewAPI(t Tracker, events Subscriber) *API {
	return &API{
		tracker: t,
		feed:    events,
	}
}

// RegisterRoutes mounts the API on r
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", a.GetStatus)
		r.Get("/history", a.GetHistory)
		r.Post("/challenge/start", a.StartChallenge)
		r.Post("/challenge/guess", a.SubmitGuess)
		if a.feed != nil {
			r.Get("/stream", a.Stream)
		}
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// statusFor maps tracker errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, countdown.ErrInvalidGuess):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrChallengeCompleted), errors.Is(err, tracker.ErrNoActiveGame):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
