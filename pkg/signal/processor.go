package signal

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/sirupsen/logrus"
)

// Processor converts raw events into signals with enriched context.
type Processor struct {
	registry *EventProcessorRegistry
}

// NewProcessor creates a new signal processor with an empty event processor registry.
func NewProcessor() *Processor {
	return &Processor{
		registry: NewEventProcessorRegistry(),
	}
}

// GetEventProcessorRegistry returns the registry for this processor.
// This allows registering custom event processors.
func (p *Processor) GetEventProcessorRegistry() *EventProcessorRegistry {
	return p.registry
}

// Process converts an event of the given type into a signal against st at now.
func (p *Processor) Process(ctx context.Context, eventType string, event interface{}, st *state.PersistedState, now time.Time) (Signal, error) {
	if st == nil {
		return nil, fmt.Errorf("state is nil")
	}

	processor := p.registry.Get(eventType)
	if processor == nil {
		return nil, fmt.Errorf("no event processor registered for '%s'", eventType)
	}

	sig, err := processor.Process(ctx, event, BuildPlayerContext(st, now))
	if err != nil {
		return nil, fmt.Errorf("failed to process %s event: %w", eventType, err)
	}

	if sig != nil {
		logrus.Debugf("processed %s event into %s signal", eventType, sig.Type())
	}
	return sig, nil
}
