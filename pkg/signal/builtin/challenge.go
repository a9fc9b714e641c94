package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/sirupsen/logrus"
)

// ChallengeEventProcessor processes resolved minigame results into ChallengeResolvedSignal.
// Unresolved results produce no signal.
type ChallengeEventProcessor struct{}

func (p *ChallengeEventProcessor) EventType() string {
	return EventChallengeResult
}

func (p *ChallengeEventProcessor) Process(ctx context.Context, event interface{}, playerCtx *signal.PlayerContext) (signal.Signal, error) {
	var result countdown.GuessResult
	switch e := event.(type) {
	case countdown.GuessResult:
		result = e
	case *countdown.GuessResult:
		if e == nil {
			return nil, fmt.Errorf("guess result is nil")
		}
		result = *e
	default:
		return nil, fmt.Errorf("expected countdown.GuessResult, got %T", event)
	}

	if !result.Outcome.Resolved() {
		logrus.Debugf("guess outcome %s does not resolve the challenge, no signal", result.Outcome)
		return nil, nil
	}

	won := result.Outcome == countdown.OutcomeWon
	return signal.NewChallengeResolvedSignal(playerCtx.Now, won, result.Target, playerCtx), nil
}
