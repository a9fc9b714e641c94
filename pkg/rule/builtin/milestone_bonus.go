package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// MilestoneBonusRuleType is the type identifier for one-time milestone bonuses
	MilestoneBonusRuleType = "milestone_bonus"

	// DefaultMilestonePoints is used when the rule does not configure points
	DefaultMilestonePoints = countdown.MilestonePoints
)

// MilestoneBonusRule fires once elapsed days reach the configured day and the
// history holds no entry with the configured reason yet.
type MilestoneBonusRule struct {
	config  rule.RuleConfig
	day     int
	points  int
	reason  string
	message string
}

// NewMilestoneBonusRule creates a new milestone bonus rule.
func NewMilestoneBonusRule(config rule.RuleConfig) (*MilestoneBonusRule, error) {
	day := config.GetInt("day", -1)
	if day < 0 {
		return nil, fmt.Errorf("milestone rule %s: parameter 'day' must be >= 0", config.ID)
	}

	points := config.GetInt("points", DefaultMilestonePoints)
	if points <= 0 {
		return nil, fmt.Errorf("milestone rule %s: parameter 'points' must be > 0", config.ID)
	}

	reason := config.GetString("reason", "")
	if reason == "" {
		return nil, fmt.Errorf("milestone rule %s: parameter 'reason' is required", config.ID)
	}

	message := config.GetString("message", fmt.Sprintf("Day %d reached, %d bonus points awarded!", day, points))

	logrus.Infof("creating milestone rule %s: day=%d points=%d reason=%s", config.ID, day, points, reason)

	return &MilestoneBonusRule{
		config:  config,
		day:     day,
		points:  points,
		reason:  reason,
		message: message,
	}, nil
}

// ID returns the rule identifier.
func (r *MilestoneBonusRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *MilestoneBonusRule) Name() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	return "Milestone Bonus"
}

// SignalTypes returns the signal types this rule handles.
func (r *MilestoneBonusRule) SignalTypes() []string {
	return []string{signal.TypeCountdownTick}
}

// Config returns the rule configuration.
func (r *MilestoneBonusRule) Config() rule.RuleConfig {
	return r.config
}

// Day returns the elapsed day the milestone unlocks at.
func (r *MilestoneBonusRule) Day() int {
	return r.day
}

// Evaluate checks whether the milestone is due and not yet awarded.
func (r *MilestoneBonusRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	tick, ok := sig.(*signal.TickSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected TickSignal, got %T", sig)
	}

	playerCtx := sig.Context()
	if playerCtx == nil || playerCtx.State == nil {
		return false, nil, fmt.Errorf("tick signal has no state")
	}

	if tick.ElapsedDays < r.day {
		return false, nil, nil
	}

	if countdown.HasReason(playerCtx.State, r.reason) {
		logrus.Debugf("milestone %s already awarded", r.reason)
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), fmt.Sprintf("milestone day %d reached", r.day), r.config.Priority)
	trigger.Metadata["points"] = r.points
	trigger.Metadata["reason"] = r.reason
	trigger.Metadata["message"] = r.message
	trigger.Metadata["one_time"] = true
	trigger.Metadata["day"] = r.day
	trigger.Metadata["elapsed_days"] = tick.ElapsedDays

	return true, trigger, nil
}
