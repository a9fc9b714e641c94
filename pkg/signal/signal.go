package signal

import (
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

// Signal represents a normalized countdown event with the tracker context.
// Signals are produced by the Processor from raw domain events and
// are consumed by the Rule Engine for evaluation.
type Signal interface {
	// Type returns the signal type identifier (e.g., "countdown_tick", "challenge_resolved").
	Type() string

	// Timestamp returns when the signal occurred.
	Timestamp() time.Time

	// Metadata returns additional signal-specific data.
	// This allows rules to access signal-specific information without type assertions.
	Metadata() map[string]interface{}

	// Context returns the record the signal was produced against.
	Context() *PlayerContext
}

// PlayerContext wraps the persisted record with derived values.
// Actions mutate State in place; the caller persists it afterwards.
type PlayerContext struct {
	State       *state.PersistedState
	Now         time.Time
	ElapsedDays int
	Info        map[string]interface{}
}
