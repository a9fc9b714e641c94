package signal

import (
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

// BuildPlayerContext creates a PlayerContext for the record at now.
// This helper is used by event processors that need to enrich signals with context.
func BuildPlayerContext(st *state.PersistedState, now time.Time) *PlayerContext {
	elapsed := countdown.ComputeElapsedDays(now, st.StartDate)

	playerContext := &PlayerContext{
		State:       st,
		Now:         now,
		ElapsedDays: elapsed,
		Info:        make(map[string]interface{}),
	}

	playerContext.Info["current_score"] = st.CurrentScore
	playerContext.Info["history_entries"] = len(st.ScoreHistory)
	playerContext.Info["gate"] = string(countdown.GateStatus(st, now))

	return playerContext
}
