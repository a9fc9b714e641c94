package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

func newTestContext(elapsed int) *signal.PlayerContext {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return signal.BuildPlayerContext(state.New(now.Add(-time.Duration(elapsed)*24*time.Hour)), now)
}

func TestTickEventProcessor(t *testing.T) {
	override := 400

	tests := []struct {
		name     string
		event    interface{}
		expected int
		wantErr  bool
	}{
		{name: "nil event derives from context", event: nil, expected: 10},
		{name: "value event without override", event: TickEvent{}, expected: 10},
		{name: "pointer event with override", event: &TickEvent{ElapsedDays: &override}, expected: 400},
		{name: "wrong type", event: "tick", wantErr: true},
	}

	p := &TickEventProcessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := p.Process(context.Background(), tt.event, newTestContext(10))
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}

			tick, ok := sig.(*signal.TickSignal)
			if !ok {
				t.Fatalf("Expected *signal.TickSignal, got %T", sig)
			}
			if tick.ElapsedDays != tt.expected {
				t.Errorf("ElapsedDays = %d, expected %d", tick.ElapsedDays, tt.expected)
			}
			if tick.Metadata()["elapsed_days"] != tt.expected {
				t.Errorf("Expected elapsed_days metadata %d, got %v", tt.expected, tick.Metadata()["elapsed_days"])
			}
			if sig.Context().ElapsedDays != tt.expected {
				t.Errorf("Context().ElapsedDays = %d, expected %d", sig.Context().ElapsedDays, tt.expected)
			}
		})
	}
}

func TestChallengeEventProcessor(t *testing.T) {
	p := &ChallengeEventProcessor{}

	won := countdown.GuessResult{Outcome: countdown.OutcomeWon, Target: 7}
	sig, err := p.Process(context.Background(), won, newTestContext(3))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	resolved, ok := sig.(*signal.ChallengeResolvedSignal)
	if !ok {
		t.Fatalf("Expected *signal.ChallengeResolvedSignal, got %T", sig)
	}
	if !resolved.Won || resolved.Target != 7 {
		t.Errorf("Expected won with target 7, got won=%v target=%d", resolved.Won, resolved.Target)
	}
	if resolved.Type() != signal.TypeChallengeResolved {
		t.Errorf("Expected type '%s', got '%s'", signal.TypeChallengeResolved, resolved.Type())
	}

	lost := &countdown.GuessResult{Outcome: countdown.OutcomeLost, Target: 4}
	sig, err = p.Process(context.Background(), lost, newTestContext(3))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sig.Metadata()["won"] != false {
		t.Errorf("Expected won=false metadata, got %v", sig.Metadata()["won"])
	}

	pending := countdown.GuessResult{Outcome: countdown.OutcomeTooLow, GuessesRemaining: 2}
	sig, err = p.Process(context.Background(), pending, newTestContext(3))
	if err != nil || sig != nil {
		t.Errorf("Expected no signal for an unresolved guess, got %v, %v", sig, err)
	}

	if _, err := p.Process(context.Background(), 42, newTestContext(3)); err == nil {
		t.Error("Expected error for wrong event type")
	}
}

func TestRegisterEventProcessors(t *testing.T) {
	registry := signal.NewEventProcessorRegistry()
	RegisterEventProcessors(registry)

	if registry.Count() != 2 {
		t.Errorf("Expected 2 processors, got %d", registry.Count())
	}
	if registry.Get(EventCountdownTick) == nil || registry.Get(EventChallengeResult) == nil {
		t.Error("Expected both built-in processors to be registered")
	}
}
