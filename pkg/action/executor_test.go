package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

// testAction is a simple action for testing
type testAction struct {
	id             string
	name           string
	config         ActionConfig
	executeFunc    func(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error
	rollbackFunc   func(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error
	executeCalled  bool
	rollbackCalled bool
}

func (a *testAction) ID() string           { return a.id }
func (a *testAction) Name() string         { return a.name }
func (a *testAction) Config() ActionConfig { return a.config }

func (a *testAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	a.executeCalled = true
	if a.executeFunc != nil {
		return a.executeFunc(ctx, trigger, playerCtx)
	}
	return nil
}

func (a *testAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	a.rollbackCalled = true
	if a.rollbackFunc != nil {
		return a.rollbackFunc(ctx, trigger, playerCtx)
	}
	return nil
}

func TestNewExecutor(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	if executor == nil {
		t.Fatal("Expected non-nil executor")
	}

	if executor.GetRegistry() != registry {
		t.Error("Expected executor to use provided registry")
	}
}

func TestExecutor_Execute_Success(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	action := &testAction{
		id:     "test_action",
		name:   "Test Action",
		config: ActionConfig{ID: "test_action", Enabled: true},
	}
	registry.Register(action)

	trigger := rule.NewTrigger("test_rule", "test reason", 10)
	playerCtx := newPlayerCtx()

	result, err := executor.Execute(context.Background(), "test_action", trigger, playerCtx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.Success {
		t.Error("Expected successful result")
	}

	if !action.executeCalled {
		t.Error("Expected action Execute to be called")
	}
}

func TestExecutor_Execute_ActionNotFound(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	trigger := rule.NewTrigger("test_rule", "test reason", 10)
	playerCtx := newPlayerCtx()

	result, err := executor.Execute(context.Background(), "nonexistent_action", trigger, playerCtx)
	if err == nil {
		t.Error("Expected error for nonexistent action")
	}

	if result != nil {
		t.Error("Expected nil result for nonexistent action")
	}
}

func TestExecutor_Execute_ActionDisabled(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	action := &testAction{
		id:     "disabled_action",
		name:   "Disabled Action",
		config: ActionConfig{ID: "disabled_action", Enabled: false},
	}
	registry.Register(action)

	trigger := rule.NewTrigger("test_rule", "test reason", 10)

	_, err := executor.Execute(context.Background(), "disabled_action", trigger, newPlayerCtx())
	if !errors.Is(err, ErrActionDisabled) {
		t.Errorf("Execute() error = %v, expected ErrActionDisabled", err)
	}

	_, err = executor.ExecuteMultiple(context.Background(), []string{"disabled_action"}, trigger, newPlayerCtx(), false)
	if !errors.Is(err, ErrActionDisabled) {
		t.Errorf("ExecuteMultiple() error = %v, expected ErrActionDisabled", err)
	}

	if action.executeCalled {
		t.Error("Expected disabled action not to execute")
	}
}

func TestExecutor_Execute_ActionError(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	expectedError := &testError{msg: "action failed"}
	action := &testAction{
		id:     "failing_action",
		name:   "Failing Action",
		config: ActionConfig{ID: "failing_action", Enabled: true},
		executeFunc: func(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
			return expectedError
		},
	}
	registry.Register(action)

	trigger := rule.NewTrigger("test_rule", "test reason", 10)
	playerCtx := newPlayerCtx()

	result, err := executor.Execute(context.Background(), "failing_action", trigger, playerCtx)
	if err == nil {
		t.Error("Expected error from failing action")
	}

	if result.Success {
		t.Error("Expected unsuccessful result")
	}

	if result.Error != expectedError {
		t.Errorf("Expected error %v, got %v", expectedError, result.Error)
	}
}

func TestExecutor_ExecuteMultiple_Success(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	action1 := &testAction{
		id:     "action1",
		name:   "Action 1",
		config: ActionConfig{ID: "action1", Enabled: true},
	}
	action2 := &testAction{
		id:     "action2",
		name:   "Action 2",
		config: ActionConfig{ID: "action2", Enabled: true},
	}

	registry.Register(action1)
	registry.Register(action2)

	trigger := rule.NewTrigger("test_rule", "test reason", 10)
	playerCtx := newPlayerCtx()

	results, err := executor.ExecuteMultiple(context.Background(), []string{"action1", "action2"}, trigger, playerCtx, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	if !action1.executeCalled || !action2.executeCalled {
		t.Error("Expected both actions to be executed")
	}

	for _, result := range results {
		if !result.Success {
			t.Error("Expected all results to be successful")
		}
	}
}

func TestExecutor_ExecuteMultiple_WithRollback(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	action1 := &testAction{
		id:     "action1",
		name:   "Action 1",
		config: ActionConfig{ID: "action1", Enabled: true},
	}
	action2 := &testAction{
		id:     "action2",
		name:   "Action 2 (Fails)",
		config: ActionConfig{ID: "action2", Enabled: true},
		executeFunc: func(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
			return &testError{msg: "action2 failed"}
		},
	}

	registry.Register(action1)
	registry.Register(action2)

	trigger := rule.NewTrigger("test_rule", "test reason", 10)
	playerCtx := newPlayerCtx()

	results, err := executor.ExecuteMultiple(context.Background(), []string{"action1", "action2"}, trigger, playerCtx, true)
	if err == nil {
		t.Error("Expected error from failing action")
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results (including failed action), got %d", len(results))
	}

	if !action1.executeCalled {
		t.Error("Expected action1 to be executed")
	}

	if !action1.rollbackCalled {
		t.Error("Expected action1 to be rolled back")
	}

	if action2.rollbackCalled {
		t.Error("Did not expect action2 to be rolled back (it failed)")
	}
}

func TestExecutor_ExecuteMultiple_NoRollback(t *testing.T) {
	registry := NewRegistry()
	executor := NewExecutor(registry)

	action1 := &testAction{
		id:     "action1",
		name:   "Action 1",
		config: ActionConfig{ID: "action1", Enabled: true},
	}
	action2 := &testAction{
		id:     "action2",
		name:   "Action 2 (Fails)",
		config: ActionConfig{ID: "action2", Enabled: true},
		executeFunc: func(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
			return &testError{msg: "action2 failed"}
		},
	}

	registry.Register(action1)
	registry.Register(action2)

	trigger := rule.NewTrigger("test_rule", "test reason", 10)
	playerCtx := newPlayerCtx()

	results, err := executor.ExecuteMultiple(context.Background(), []string{"action1", "action2"}, trigger, playerCtx, false)
	if err == nil {
		t.Error("Expected error from failing action")
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results (including failed action), got %d", len(results))
	}

	if !action1.executeCalled {
		t.Error("Expected action1 to be executed")
	}

	if action1.rollbackCalled {
		t.Error("Did not expect rollback when rollbackOnError is false")
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func newPlayerCtx() *signal.PlayerContext {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &signal.PlayerContext{
		State: state.New(now.AddDate(0, 0, -10)),
		Now:   now,
	}
}

func TestExecutor_Retry(t *testing.T) {
	tests := []struct {
		name         string
		retry        *RetryConfig
		failures     int
		failErr      error
		wantErr      error
		wantAttempts int
	}{
		{
			name:         "no retry config runs once",
			retry:        nil,
			failures:     1,
			failErr:      &testError{msg: "flaky"},
			wantErr:      &testError{},
			wantAttempts: 1,
		},
		{
			name:         "recovers within attempts",
			retry:        &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond, Backoff: BackoffConstant},
			failures:     2,
			failErr:      &testError{msg: "flaky"},
			wantAttempts: 3,
		},
		{
			name:         "exhausts attempts",
			retry:        &RetryConfig{MaxAttempts: 2, Delay: time.Millisecond, Backoff: BackoffExponential},
			failures:     5,
			failErr:      &testError{msg: "down"},
			wantErr:      ErrMaxRetriesExceeded,
			wantAttempts: 2,
		},
		{
			name:         "config errors are not retried",
			retry:        &RetryConfig{MaxAttempts: 5, Delay: time.Millisecond},
			failures:     5,
			failErr:      ErrInvalidConfig,
			wantErr:      ErrInvalidConfig,
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			executor := NewExecutor(registry)

			calls := 0
			act := &testAction{
				id:     "flaky",
				config: ActionConfig{ID: "flaky", Enabled: true, Retry: tt.retry},
				executeFunc: func(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
					calls++
					if calls <= tt.failures {
						return tt.failErr
					}
					return nil
				},
			}
			registry.Register(act)

			result, err := executor.Execute(context.Background(), "flaky", rule.NewTrigger("r", "reason", 1), newPlayerCtx())
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
			case *testError:
				var te *testError
				if !errors.As(err, &te) {
					t.Fatalf("Expected testError, got %v", err)
				}
			default:
				if !errors.Is(err, want) {
					t.Fatalf("Expected %v, got %v", want, err)
				}
			}

			if result.Attempts != tt.wantAttempts {
				t.Errorf("Expected %d attempts, got %d", tt.wantAttempts, result.Attempts)
			}
			if calls != tt.wantAttempts {
				t.Errorf("Expected %d calls, got %d", tt.wantAttempts, calls)
			}
		})
	}
}
