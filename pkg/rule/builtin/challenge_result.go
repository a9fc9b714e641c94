package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// ChallengeResultRuleType is the type identifier for minigame result rules
	ChallengeResultRuleType = "challenge_result"

	OnWin  = "win"
	OnLoss = "loss"
	OnAny  = "any"
)

// ChallengeResultRule fires when a daily challenge resolves with the configured result.
// The daily point itself is granted when the challenge resolves; this rule
// carries optional extra points and a message for the configured actions.
type ChallengeResultRule struct {
	config  rule.RuleConfig
	on      string
	points  int
	reason  string
	message string
}

// NewChallengeResultRule creates a new challenge result rule.
func NewChallengeResultRule(config rule.RuleConfig) (*ChallengeResultRule, error) {
	on := config.GetString("on", OnAny)
	switch on {
	case OnWin, OnLoss, OnAny:
	default:
		return nil, fmt.Errorf("challenge rule %s: parameter 'on' must be win, loss or any, got %q", config.ID, on)
	}

	points := config.GetInt("points", 0)
	reason := config.GetString("reason", "")
	if points > 0 && reason == "" {
		return nil, fmt.Errorf("challenge rule %s: parameter 'reason' is required when points are set", config.ID)
	}

	return &ChallengeResultRule{
		config:  config,
		on:      on,
		points:  points,
		reason:  reason,
		message: config.GetString("message", ""),
	}, nil
}

// ID returns the rule identifier.
func (r *ChallengeResultRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *ChallengeResultRule) Name() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	return "Challenge Result"
}

// SignalTypes returns the signal types this rule handles.
func (r *ChallengeResultRule) SignalTypes() []string {
	return []string{signal.TypeChallengeResolved}
}

// Config returns the rule configuration.
func (r *ChallengeResultRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks whether the resolved challenge matches the configured result.
func (r *ChallengeResultRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	resolved, ok := sig.(*signal.ChallengeResolvedSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected ChallengeResolvedSignal, got %T", sig)
	}

	switch {
	case r.on == OnWin && !resolved.Won:
		return false, nil, nil
	case r.on == OnLoss && resolved.Won:
		return false, nil, nil
	}

	result := OnLoss
	if resolved.Won {
		result = OnWin
	}

	message := r.message
	if message == "" {
		message = defaultResultMessage(resolved.Won, resolved.Target)
	}

	trigger := rule.NewTrigger(r.ID(), "daily challenge "+result, r.config.Priority)
	trigger.Metadata["result"] = result
	trigger.Metadata["target"] = resolved.Target
	trigger.Metadata["message"] = message
	if r.points > 0 {
		trigger.Metadata["points"] = r.points
		trigger.Metadata["reason"] = r.reason
		trigger.Metadata["one_time"] = false
	}

	logrus.Debugf("challenge rule %s matched result %s", r.ID(), result)
	return true, trigger, nil
}

func defaultResultMessage(won bool, target int) string {
	if won {
		return "Challenge complete! 1 point earned!"
	}
	return fmt.Sprintf("Better luck tomorrow. The number was %d.", target)
}
