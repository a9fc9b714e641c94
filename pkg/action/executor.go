package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Executor executes actions in response to rule triggers.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new action executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
	}
}

// Execute runs an action in response to a trigger.
func (e *Executor) Execute(ctx context.Context, actionID string, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (*ActionResult, error) {
	action, err := e.lookup(actionID)
	if err != nil {
		return nil, err
	}

	logrus.Infof("executing action %s for trigger %s", actionID, trigger.RuleID)

	attempts, err := e.run(ctx, action, trigger, playerCtx)
	if err != nil {
		logrus.Errorf("action %s failed: %v", actionID, err)
		return NewActionError(actionID, attempts, err), err
	}

	logrus.Infof("action %s completed successfully", actionID)
	return NewActionResult(actionID, attempts), nil
}

// ExecuteMultiple executes multiple actions in sequence.
// If rollbackOnError is true, previously executed actions will be rolled back if a later action fails.
func (e *Executor) ExecuteMultiple(ctx context.Context, actionIDs []string, trigger *rule.Trigger, playerCtx *signal.PlayerContext, rollbackOnError bool) ([]*ActionResult, error) {
	var results []*ActionResult
	var executedActions []Action

	for _, actionID := range actionIDs {
		action, err := e.lookup(actionID)
		if err != nil {
			logrus.Errorf("%v", err)

			if rollbackOnError && len(executedActions) > 0 {
				e.rollbackActions(ctx, executedActions, trigger, playerCtx)
			}

			return results, err
		}

		logrus.Infof("executing action %s for trigger %s", actionID, trigger.RuleID)

		attempts, err := e.run(ctx, action, trigger, playerCtx)
		if err != nil {
			logrus.Errorf("action %s failed: %v", actionID, err)
			results = append(results, NewActionError(actionID, attempts, err))

			if rollbackOnError && len(executedActions) > 0 {
				e.rollbackActions(ctx, executedActions, trigger, playerCtx)
			}

			return results, err
		}

		executedActions = append(executedActions, action)
		results = append(results, NewActionResult(actionID, attempts))
		logrus.Infof("action %s completed successfully", actionID)
	}

	return results, nil
}

// run executes the action once, or under the retry policy of its config.
// Configuration and context errors are never retried.
// lookup returns the action only when it is registered and enabled.
func (e *Executor) lookup(actionID string) (Action, error) {
	action := e.registry.Get(actionID)
	if action == nil {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}
	if !action.Config().Enabled {
		return nil, fmt.Errorf("%w: %s", ErrActionDisabled, actionID)
	}
	return action, nil
}

func (e *Executor) run(ctx context.Context, action Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (int, error) {
	retry := action.Config().Retry
	if retry == nil || retry.MaxAttempts <= 1 {
		return 1, action.Execute(ctx, trigger, playerCtx)
	}

	attempts := 0
	op := func() error {
		attempts++
		err := action.Execute(ctx, trigger, playerCtx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrMissingPlayerContext) {
			return backoff.Permanent(err)
		}
		logrus.Warnf("action %s attempt %d/%d failed: %v", action.ID(), attempts, retry.MaxAttempts, err)
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(retryPolicy(retry), ctx))
	if err == nil {
		return attempts, nil
	}
	if attempts >= retry.MaxAttempts {
		return attempts, fmt.Errorf("%w after %d attempts: %v", ErrMaxRetriesExceeded, attempts, err)
	}
	return attempts, err
}

func retryPolicy(cfg *RetryConfig) backoff.BackOff {
	var b backoff.BackOff
	switch cfg.Backoff {
	case BackoffExponential:
		eb := backoff.NewExponentialBackOff()
		if cfg.Delay > 0 {
			eb.InitialInterval = cfg.Delay
		}
		eb.MaxElapsedTime = 0
		b = eb
	default:
		b = backoff.NewConstantBackOff(cfg.Delay)
	}
	return backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1))
}

// rollbackActions rolls back actions in reverse order.
func (e *Executor) rollbackActions(ctx context.Context, actions []Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) {
	logrus.Warnf("rolling back %d actions", len(actions))

	// Rollback in reverse order
	for i := len(actions) - 1; i >= 0; i-- {
		action := actions[i]
		logrus.Infof("rolling back action %s", action.ID())

		err := action.Rollback(ctx, trigger, playerCtx)
		if err != nil {
			if errors.Is(err, ErrRollbackNotSupported) {
				logrus.Warnf("action %s does not support rollback", action.ID())
			} else {
				logrus.Errorf("failed to rollback action %s: %v", action.ID(), err)
			}
		} else {
			logrus.Infof("action %s rolled back successfully", action.ID())
		}
	}
}

// GetRegistry returns the action registry used by this executor.
func (e *Executor) GetRegistry() *Registry {
	return e.registry
}
