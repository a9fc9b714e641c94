// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	actionBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/action/builtin"
	"github.com/AccelByte/extend-countdown-challenge/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitPipeline creates the pipeline manager and validates its wiring.
//
// ============================================================
// DEVELOPER: Configure rule-to-action mappings
// ============================================================
// The pipeline orchestrates the flow:
// Tracker events → Signals → Rules → Actions
//
// Rule-to-action mappings are configured in config/pipeline.yaml:
//
// rules:
//   - id: day-328-bonus
//     type: milestone_bonus
//     actions: [award-score, announce]  # ← Actions to execute
//
// When a rule triggers, its actions run in sequence. If one fails,
// the actions already applied are rolled back.
// ============================================================
func InitPipeline(pipelineConfig *pipeline.Config, deps *actionBuiltin.Dependencies) (*pipeline.Manager, error) {
	processor := InitSignalProcessor()

	ruleEngine, ruleRegistry, err := InitRuleEngine(pipelineConfig)
	if err != nil {
		return nil, err
	}

	actionExecutor, actionRegistry, err := InitActionExecutor(pipelineConfig, deps)
	if err != nil {
		return nil, err
	}

	if err := pipeline.ValidateWiring(ruleRegistry, actionRegistry, pipelineConfig); err != nil {
		return nil, fmt.Errorf("pipeline wiring validation failed: %w", err)
	}
	logrus.Info("pipeline wiring validation passed")

	p := pipelineConfig.Pipeline()
	logrus.Infof("configured %d rule-to-action mappings", len(p.Actions))

	manager := pipeline.NewManager(processor, ruleEngine, actionExecutor, p, nil)
	logrus.Infof("initialized pipeline manager %q", p.Name)

	return manager, nil
}
