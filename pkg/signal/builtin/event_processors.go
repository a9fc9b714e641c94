package builtin

import (
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
)

// Event types accepted by the built-in processors.
const (
	EventCountdownTick   = "countdown_tick"
	EventChallengeResult = "challenge_result"
)

// RegisterEventProcessors registers all built-in event processors.
func RegisterEventProcessors(registry *signal.EventProcessorRegistry) {
	registry.Register(&TickEventProcessor{})
	registry.Register(&ChallengeEventProcessor{})
}
