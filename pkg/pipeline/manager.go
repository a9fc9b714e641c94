package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/action"
	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/signal/builtin"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

// Manager orchestrates the complete bonus pipeline:
// Event → Signal → Rules → Actions
//
// Actions mutate the record passed in; persisting it is the caller's job.
type Manager struct {
	processor *signal.Processor
	engine    *rule.Engine
	executor  *action.Executor
	pipeline  *Pipeline
	logger    *slog.Logger

	eventsProcessed  atomic.Int64
	signalsGenerated atomic.Int64
	evaluations      atomic.Int64
	triggers         atomic.Int64
	actionsExecuted  atomic.Int64
	actionsSucceeded atomic.Int64
	actionsFailed    atomic.Int64
}

// Result reports what one pipeline run did to the record.
type Result struct {
	SignalType string
	Triggers   []*rule.Trigger
	Awarded    []state.ScoreEntry
	Failures   int
}

// Changed reports whether the run added score entries.
func (r *Result) Changed() bool {
	return r != nil && len(r.Awarded) > 0
}

// NewManager creates a new pipeline manager with all required components.
// p maps rule IDs to the action IDs they should trigger.
func NewManager(processor *signal.Processor, engine *rule.Engine, executor *action.Executor, p *Pipeline, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	if p == nil {
		p = NewPipeline("default")
	}

	return &Manager{
		processor: processor,
		engine:    engine,
		executor:  executor,
		pipeline:  p,
		logger:    logger,
	}
}

// ProcessTick runs a countdown tick for elapsed days through the pipeline.
// A negative elapsed derives the day from the record and now.
func (m *Manager) ProcessTick(ctx context.Context, st *state.PersistedState, elapsed int, now time.Time) (*Result, error) {
	event := signalBuiltin.TickEvent{}
	if elapsed >= 0 {
		event.ElapsedDays = &elapsed
	}

	m.logger.Debug("processing countdown tick through pipeline",
		slog.Int("elapsed_days", elapsed))

	return m.process(ctx, signalBuiltin.EventCountdownTick, event, st, now)
}

// ProcessChallengeResult runs a minigame guess result through the pipeline.
// Unresolved results produce no signal and an empty Result.
func (m *Manager) ProcessChallengeResult(ctx context.Context, st *state.PersistedState, result countdown.GuessResult, now time.Time) (*Result, error) {
	m.logger.Info("processing challenge result through pipeline",
		slog.String("outcome", string(result.Outcome)))

	return m.process(ctx, signalBuiltin.EventChallengeResult, result, st, now)
}

func (m *Manager) process(ctx context.Context, eventType string, event interface{}, st *state.PersistedState, now time.Time) (*Result, error) {
	m.eventsProcessed.Add(1)

	// Step 1: Convert event to signal
	sig, err := m.processor.Process(ctx, eventType, event, st, now)
	if err != nil {
		m.logger.Error("failed to process event to signal",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("signal processing failed: %w", err)
	}

	if sig == nil {
		m.logger.Debug("event did not generate a signal, skipping pipeline",
			slog.String("event_type", eventType))
		return &Result{}, nil
	}
	m.signalsGenerated.Add(1)

	before := len(st.ScoreHistory)
	result := &Result{SignalType: sig.Type()}

	// Step 2: Evaluate rules
	if err := m.evaluateAndExecute(ctx, sig, result); err != nil {
		return nil, err
	}

	if len(st.ScoreHistory) > before {
		result.Awarded = append([]state.ScoreEntry(nil), st.ScoreHistory[before:]...)
	}
	return result, nil
}

// evaluateAndExecute evaluates rules for a signal and executes triggered actions.
func (m *Manager) evaluateAndExecute(ctx context.Context, sig signal.Signal, out *Result) error {
	m.evaluations.Add(1)

	// Step 2: Evaluate rules against the signal
	triggers, err := m.engine.Evaluate(ctx, sig)
	if err != nil {
		m.logger.Error("rule evaluation failed",
			slog.String("signal_type", sig.Type()),
			slog.String("error", err.Error()))
		return fmt.Errorf("rule evaluation failed: %w", err)
	}

	if len(triggers) == 0 {
		m.logger.Debug("no rules triggered for signal",
			slog.String("signal_type", sig.Type()))
		return nil
	}

	m.triggers.Add(int64(len(triggers)))
	out.Triggers = triggers

	m.logger.Info("rules triggered",
		slog.Int("trigger_count", len(triggers)),
		slog.String("signal_type", sig.Type()))

	// Step 3: Execute actions for each trigger
	for _, trigger := range triggers {
		// Get action IDs from rule-to-actions mapping
		actionIDs := m.pipeline.GetActions(trigger.RuleID)
		if len(actionIDs) == 0 {
			m.logger.Info("trigger has no actions configured",
				slog.String("rule_id", trigger.RuleID))
			continue
		}

		m.logger.Info("executing actions for trigger",
			slog.String("rule_id", trigger.RuleID),
			slog.Int("action_count", len(actionIDs)))

		results, err := m.executor.ExecuteMultiple(ctx, actionIDs, trigger, sig.Context(), m.pipeline.RollbackOnError)
		if err != nil {
			m.logger.Error("action execution encountered error",
				slog.String("rule_id", trigger.RuleID),
				slog.String("error", err.Error()))
		}

		// Log results
		successCount := 0
		failureCount := 0
		for _, result := range results {
			m.actionsExecuted.Add(1)
			if result.Error != nil {
				failureCount++
				m.logger.Error("action execution failed",
					slog.String("action_id", result.ActionID),
					slog.String("rule_id", trigger.RuleID),
					slog.Int("attempts", result.Attempts),
					slog.String("error", result.Error.Error()))
			} else {
				successCount++
			}
		}
		m.actionsSucceeded.Add(int64(successCount))
		m.actionsFailed.Add(int64(failureCount))
		out.Failures += failureCount

		m.logger.Info("action execution completed",
			slog.String("rule_id", trigger.RuleID),
			slog.Int("success_count", successCount),
			slog.Int("failure_count", failureCount))

		// If any action failed and we have a partial failure, log a warning
		if failureCount > 0 && successCount > 0 {
			m.logger.Warn("partial action execution failure",
				slog.String("rule_id", trigger.RuleID),
				slog.Int("success", successCount),
				slog.Int("failed", failureCount))
		}
	}

	return nil
}

// Stats returns pipeline statistics (for observability).
type Stats struct {
	ProcessorStats ProcessorStats `json:"processor"`
	EngineStats    EngineStats    `json:"engine"`
	ExecutorStats  ExecutorStats  `json:"executor"`
}

// ProcessorStats contains signal processor statistics.
type ProcessorStats struct {
	TotalEventsProcessed int64 `json:"total_events_processed"`
	SignalsGenerated     int64 `json:"signals_generated"`
}

// EngineStats contains rule engine statistics.
type EngineStats struct {
	TotalEvaluations  int64 `json:"total_evaluations"`
	TriggersGenerated int64 `json:"triggers_generated"`
}

// ExecutorStats contains action executor statistics.
type ExecutorStats struct {
	TotalActionsExecuted int64 `json:"total_actions_executed"`
	SuccessfulActions    int64 `json:"successful_actions"`
	FailedActions        int64 `json:"failed_actions"`
}

// GetStats returns current pipeline statistics.
func (m *Manager) GetStats() Stats {
	return Stats{
		ProcessorStats: ProcessorStats{
			TotalEventsProcessed: m.eventsProcessed.Load(),
			SignalsGenerated:     m.signalsGenerated.Load(),
		},
		EngineStats: EngineStats{
			TotalEvaluations:  m.evaluations.Load(),
			TriggersGenerated: m.triggers.Load(),
		},
		ExecutorStats: ExecutorStats{
			TotalActionsExecuted: m.actionsExecuted.Load(),
			SuccessfulActions:    m.actionsSucceeded.Load(),
			FailedActions:        m.actionsFailed.Load(),
		},
	}
}
