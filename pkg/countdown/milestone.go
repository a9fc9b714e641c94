// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/sirupsen/logrus"
)

const (
	// ReasonDay328Bonus labels the mid-challenge milestone.
	ReasonDay328Bonus = "day-328-bonus"
	// ReasonFinalDayBonus labels the completion milestone.
	ReasonFinalDayBonus = "final-day-bonus"

	// MidChallengeDay is the elapsed day of the mid-challenge milestone.
	MidChallengeDay = 328
	// MilestonePoints is awarded by each milestone.
	MilestonePoints = 25
)

// Milestone is a one-time bonus awarded once elapsed days reach Day.
// Reason doubles as the deduplication key.
type Milestone struct {
	Day     int
	Points  int
	Reason  string
	Message string
}

// Milestones returns the bonuses of the definition in evaluation order.
func (d Definition) Milestones() []Milestone {
	return []Milestone{
		{
			Day:     MidChallengeDay,
			Points:  MilestonePoints,
			Reason:  ReasonDay328Bonus,
			Message: "Congratulations! Day 328 reached, 25 bonus points awarded!",
		},
		{
			Day:     d.TotalDays,
			Points:  MilestonePoints,
			Reason:  ReasonFinalDayBonus,
			Message: "Congratulations! Every countdown day is done, 25 final bonus points awarded!",
		},
	}
}

// Due reports whether the milestone should be awarded now.
func (m Milestone) Due(st *state.PersistedState, elapsedDays int) bool {
	return elapsedDays >= m.Day && !HasReason(st, m.Reason)
}

// CheckSpecialBonuses awards every due milestone in order and returns the new
// entries. Calling it again with the same or a later elapsed day is a no-op
// for milestones already recorded.
func CheckSpecialBonuses(st *state.PersistedState, elapsedDays int, milestones []Milestone, now time.Time) []state.ScoreEntry {
	var awarded []state.ScoreEntry
	for _, m := range milestones {
		if !m.Due(st, elapsedDays) {
			continue
		}
		entry, ok := AddScore(st, m.Points, m.Reason, now)
		if !ok {
			continue
		}
		logrus.Infof("milestone %s reached at day %d", m.Reason, elapsedDays)
		awarded = append(awarded, entry)
	}
	return awarded
}
