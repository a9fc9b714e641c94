// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"fmt"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/sirupsen/logrus"
)

// ReasonDailyChallenge labels the minigame reward. Unlike milestone reasons it may recur.
const ReasonDailyChallenge = "daily-challenge"

// DisplayDate formats t as the human-readable date stored on history entries.
func DisplayDate(t time.Time) string {
	return t.Format("1/2/2006")
}

// AddScore appends a history entry and increments the score together, so the
// score always equals the history sum. Non-positive points are ignored.
func AddScore(st *state.PersistedState, points int, reason string, now time.Time) (state.ScoreEntry, bool) {
	if points <= 0 || reason == "" {
		logrus.Warnf("ignoring invalid score award: points=%d reason=%q", points, reason)
		return state.ScoreEntry{}, false
	}

	entry := state.ScoreEntry{
		Date:   DisplayDate(now),
		Points: points,
		Reason: reason,
	}
	st.ScoreHistory = append(st.ScoreHistory, entry)
	st.CurrentScore += points

	logrus.Debugf("awarded %d points for %s, score now %d", points, reason, st.CurrentScore)
	return entry, true
}

// HasReason reports whether any history entry carries reason.
func HasReason(st *state.PersistedState, reason string) bool {
	for _, entry := range st.ScoreHistory {
		if entry.Reason == reason {
			return true
		}
	}
	return false
}

// SumPoints returns the total of all history entries.
func SumPoints(history []state.ScoreEntry) int {
	sum := 0
	for _, entry := range history {
		sum += entry.Points
	}
	return sum
}

// HistoryNewestFirst returns a copy of the history in reverse insertion order.
func HistoryNewestFirst(st *state.PersistedState) []state.ScoreEntry {
	out := make([]state.ScoreEntry, len(st.ScoreHistory))
	for i, entry := range st.ScoreHistory {
		out[len(out)-1-i] = entry
	}
	return out
}

// FormatEntry renders one history line, e.g. "1/2/2025: daily-challenge (+1 points)".
func FormatEntry(entry state.ScoreEntry) string {
	return fmt.Sprintf("%s: %s (+%d points)", entry.Date, entry.Reason, entry.Points)
}
