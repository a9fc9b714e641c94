package signal

import "time"

// Signal types produced by the built-in event processors.
const (
	TypeCountdownTick     = "countdown_tick"
	TypeChallengeResolved = "challenge_resolved"
)

// BaseSignal is a generic Signal implementation that concrete signals embed.
type BaseSignal struct {
	signalType string
	timestamp  time.Time
	metadata   map[string]interface{}
	context    *PlayerContext
}

// NewBaseSignal creates a new base signal.
func NewBaseSignal(signalType string, timestamp time.Time, metadata map[string]interface{}, context *PlayerContext) BaseSignal {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return BaseSignal{
		signalType: signalType,
		timestamp:  timestamp,
		metadata:   metadata,
		context:    context,
	}
}

// Type implements Signal interface.
func (s *BaseSignal) Type() string {
	return s.signalType
}

// Timestamp implements Signal interface.
func (s *BaseSignal) Timestamp() time.Time {
	return s.timestamp
}

// Metadata implements Signal interface.
func (s *BaseSignal) Metadata() map[string]interface{} {
	return s.metadata
}

// Context implements Signal interface.
func (s *BaseSignal) Context() *PlayerContext {
	return s.context
}

// TickSignal is emitted on every countdown refresh.
type TickSignal struct {
	BaseSignal
	ElapsedDays int
}

// NewTickSignal creates a countdown tick signal.
func NewTickSignal(timestamp time.Time, elapsedDays int, context *PlayerContext) *TickSignal {
	metadata := map[string]interface{}{
		"elapsed_days": elapsedDays,
	}
	return &TickSignal{
		BaseSignal:  NewBaseSignal(TypeCountdownTick, timestamp, metadata, context),
		ElapsedDays: elapsedDays,
	}
}

// ChallengeResolvedSignal is emitted when a minigame session is won or lost.
type ChallengeResolvedSignal struct {
	BaseSignal
	Won    bool
	Target int
}

// NewChallengeResolvedSignal creates a challenge resolved signal.
func NewChallengeResolvedSignal(timestamp time.Time, won bool, target int, context *PlayerContext) *ChallengeResolvedSignal {
	metadata := map[string]interface{}{
		"won":    won,
		"target": target,
	}
	return &ChallengeResolvedSignal{
		BaseSignal: NewBaseSignal(TypeChallengeResolved, timestamp, metadata, context),
		Won:        won,
		Target:     target,
	}
}
