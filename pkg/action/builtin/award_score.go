package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/action"
	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// AwardScoreActionID is the type identifier for score awards.
	AwardScoreActionID = "award_score"

	// DefaultAwardPoints is used when neither the trigger nor the config carries points.
	DefaultAwardPoints = 1
)

// AwardScoreAction appends a score history entry for the trigger.
// Points and reason come from the trigger metadata, falling back to the
// action parameters. Triggers flagged one_time are awarded at most once.
type AwardScoreAction struct {
	config        action.ActionConfig
	defaultPoints int
	defaultReason string
}

// NewAwardScoreAction creates a new award score action.
func NewAwardScoreAction(config action.ActionConfig) *AwardScoreAction {
	points := config.GetParameterInt("points", DefaultAwardPoints)
	reason := config.GetParameterString("reason", "")

	logrus.Infof("creating award score action: points=%d, reason=%q", points, reason)

	return &AwardScoreAction{
		config:        config,
		defaultPoints: points,
		defaultReason: reason,
	}
}

// ID returns the action identifier.
func (a *AwardScoreAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *AwardScoreAction) Name() string {
	return "Award Score"
}

// Config returns the action configuration.
func (a *AwardScoreAction) Config() action.ActionConfig {
	return a.config
}

func (a *AwardScoreAction) resolve(trigger *rule.Trigger) (int, string, bool) {
	points, ok := trigger.MetadataInt("points")
	if !ok {
		points = a.defaultPoints
	}
	reason, ok := trigger.MetadataString("reason")
	if !ok || reason == "" {
		reason = a.defaultReason
	}
	oneTime, _ := trigger.Metadata["one_time"].(bool)
	return points, reason, oneTime
}

// Execute awards the points on the in-memory record.
func (a *AwardScoreAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil || playerCtx.State == nil {
		return action.ErrMissingPlayerContext
	}

	points, reason, oneTime := a.resolve(trigger)
	if reason == "" {
		return fmt.Errorf("%w: no reason for trigger %s", action.ErrInvalidConfig, trigger.RuleID)
	}
	if points <= 0 {
		logrus.Debugf("trigger %s carries no points, nothing to award", trigger.RuleID)
		return nil
	}

	if oneTime && countdown.HasReason(playerCtx.State, reason) {
		logrus.Debugf("%s already awarded, skipping", reason)
		return nil
	}

	entry, ok := countdown.AddScore(playerCtx.State, points, reason, playerCtx.Now)
	if !ok {
		return nil
	}

	logrus.Infof("awarded %s (trigger %s), score now %d",
		countdown.FormatEntry(entry), trigger.RuleID, playerCtx.State.CurrentScore)
	return nil
}

// Rollback removes the entry appended by Execute when it is still the newest one.
func (a *AwardScoreAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil || playerCtx.State == nil {
		return action.ErrMissingPlayerContext
	}

	points, reason, _ := a.resolve(trigger)
	st := playerCtx.State
	n := len(st.ScoreHistory)
	if n == 0 {
		return nil
	}

	last := st.ScoreHistory[n-1]
	if last.Reason != reason || last.Points != points {
		logrus.Warnf("cannot roll back %s: newest entry is %s", reason, countdown.FormatEntry(last))
		return nil
	}

	st.ScoreHistory = st.ScoreHistory[:n-1]
	st.CurrentScore -= last.Points
	logrus.Infof("rolled back %s, score now %d", countdown.FormatEntry(last), st.CurrentScore)
	return nil
}
