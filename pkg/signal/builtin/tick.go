package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
)

// TickEvent is raised by the refresh loop. A nil ElapsedDays means "derive
// from the record and the clock".
type TickEvent struct {
	ElapsedDays *int
}

// TickEventProcessor processes countdown refresh events into TickSignal.
type TickEventProcessor struct{}

func (p *TickEventProcessor) EventType() string {
	return EventCountdownTick
}

func (p *TickEventProcessor) Process(ctx context.Context, event interface{}, playerCtx *signal.PlayerContext) (signal.Signal, error) {
	elapsed := playerCtx.ElapsedDays

	switch e := event.(type) {
	case nil:
	case TickEvent:
		if e.ElapsedDays != nil {
			elapsed = *e.ElapsedDays
		}
	case *TickEvent:
		if e != nil && e.ElapsedDays != nil {
			elapsed = *e.ElapsedDays
		}
	default:
		return nil, fmt.Errorf("expected TickEvent, got %T", event)
	}

	if elapsed < 0 {
		elapsed = 0
	}
	playerCtx.ElapsedDays = elapsed

	return signal.NewTickSignal(playerCtx.Now, elapsed, playerCtx), nil
}
