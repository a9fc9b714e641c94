// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

// Gate is the daily challenge eligibility state.
type Gate string

const (
	GateAvailable Gate = "Available"
	GateCompleted Gate = "Completed"
)

// DateKey identifies the calendar day of t in t's location.
func DateKey(t time.Time) string {
	return t.Format("Mon Jan 02 2006")
}

// GateStatus reports whether today's attempt has already been resolved.
// The gate reopens implicitly when the calendar day changes.
func GateStatus(st *state.PersistedState, now time.Time) Gate {
	if st.LastChallengeDateKey != nil && *st.LastChallengeDateKey == DateKey(now) {
		return GateCompleted
	}
	return GateAvailable
}

// Label returns the button text and description shown for the gate.
func (g Gate) Label() (button, description string) {
	if g == GateCompleted {
		return "Completed today", "Looking forward to tomorrow's challenge!"
	}
	return "Start game", "Finish today's minigame to earn points!"
}
