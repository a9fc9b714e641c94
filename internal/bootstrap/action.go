// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/action"
	actionBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/action/builtin"
	"github.com/AccelByte/extend-countdown-challenge/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitActionExecutor creates and initializes an action executor with actions from pipeline config.
//
// ============================================================
// DEVELOPER: Register custom action types here.
// ============================================================
// Actions apply the effects of a triggered rule to the record.
//
// Steps to add a new action:
// 1. Create your action in pkg/action/builtin/
// 2. Implement the Action interface
// 3. Register the action type in pkg/action/builtin/init.go
// 4. Add action configuration to config/pipeline.yaml
// 5. Map it to rules in config/pipeline.yaml
//
// The builtin actions:
// - award_score → appends a score entry (one-time reasons are deduplicated)
// - announce → publishes a notice on the live feed
//
// IMPORTANT: Actions that reach outside the record (e.g. the feed)
// receive their dependencies through the Dependencies struct.
// ============================================================
func InitActionExecutor(
	pipelineConfig *pipeline.Config,
	deps *actionBuiltin.Dependencies,
) (*action.Executor, *action.Registry, error) {
	actionBuiltin.RegisterActions(deps)

	actionConfigs := pipelineConfig.ActionConfigs()

	registry := action.NewRegistry()
	if err := action.RegisterActions(registry, actionConfigs); err != nil {
		return nil, nil, fmt.Errorf("failed to register actions: %w", err)
	}

	logrus.Infof("registered %d actions (types: %v)", registry.Count(), action.RegisteredActionTypes())

	executor := action.NewExecutor(registry)
	logrus.Infof("initialized action executor")

	return executor, registry, nil
}
