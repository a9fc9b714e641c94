package builtin

import (
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
)

// RegisterBuiltinRules registers all built-in rule types with the factory.
func RegisterBuiltinRules() {
	rule.RegisterRuleType(MilestoneBonusRuleType, func(config rule.RuleConfig) (rule.Rule, error) {
		r, err := NewMilestoneBonusRule(config)
		if err != nil {
			return nil, err
		}
		return r, nil
	})

	rule.RegisterRuleType(ChallengeResultRuleType, func(config rule.RuleConfig) (rule.Rule, error) {
		r, err := NewChallengeResultRule(config)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}
