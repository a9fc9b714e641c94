// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"fmt"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

// Snapshot is everything the display surface renders.
type Snapshot struct {
	StartDate      time.Time `json:"startDate"`
	ElapsedDays    int       `json:"elapsedDays"`
	DaysLeft       int       `json:"daysLeft"`
	WeeksLeft      int       `json:"weeksLeft"`
	TimeProgress   float64   `json:"timeProgress"`
	CurrentScore   int       `json:"currentScore"`
	TargetScore    int       `json:"targetScore"`
	ScoreProgress  float64   `json:"scoreProgress"`
	ScoreLabel     string    `json:"scoreLabel"`
	Gate           Gate      `json:"gate"`
	GateButton     string    `json:"gateButton"`
	GateDescriptor string    `json:"gateDescription"`
}

// Summarize computes the display snapshot of st at now.
func Summarize(st *state.PersistedState, def Definition, now time.Time) Snapshot {
	elapsed := ComputeElapsedDays(now, st.StartDate)
	daysLeft, weeksLeft := def.Remaining(elapsed)
	gate := GateStatus(st, now)
	button, desc := gate.Label()

	return Snapshot{
		StartDate:      st.StartDate,
		ElapsedDays:    elapsed,
		DaysLeft:       daysLeft,
		WeeksLeft:      weeksLeft,
		TimeProgress:   def.Progress(elapsed),
		CurrentScore:   st.CurrentScore,
		TargetScore:    def.TotalScore,
		ScoreProgress:  def.ScoreProgress(st.CurrentScore),
		ScoreLabel:     fmt.Sprintf("Current score: %d / %d", st.CurrentScore, def.TotalScore),
		Gate:           gate,
		GateButton:     button,
		GateDescriptor: desc,
	}
}
