// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/pipeline"
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	ruleBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/rule/builtin"
	"github.com/sirupsen/logrus"
)

// InitRuleEngine creates and initializes a rule engine with rules from pipeline config.
//
// ============================================================
// DEVELOPER: Register custom rule types here.
// ============================================================
// Rules evaluate signals and decide whether to trigger actions.
//
// The builtin rules detect:
// - Milestone days reached → one-time bonus
// - Daily challenge resolved → announcement (and optional extra points)
//
// Rules with equal priority fire in configuration order, which keeps
// the day-328 bonus ahead of the final-day bonus.
// ============================================================
func InitRuleEngine(pipelineConfig *pipeline.Config) (*rule.Engine, *rule.Registry, error) {
	ruleBuiltin.RegisterBuiltinRules()

	ruleConfigs := pipelineConfig.RuleConfigs()

	registry := rule.NewRegistry()
	if err := rule.RegisterRules(registry, ruleConfigs); err != nil {
		return nil, nil, fmt.Errorf("failed to register rules: %w", err)
	}

	logrus.Infof("registered %d rules", registry.Count())

	engine := rule.NewEngine(registry)
	logrus.Infof("initialized rule engine")

	return engine, registry, nil
}
