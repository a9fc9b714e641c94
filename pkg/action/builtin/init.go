package builtin

import (
	"github.com/AccelByte/extend-countdown-challenge/pkg/action"
)

// Dependencies holds dependencies needed by built-in actions.
type Dependencies struct {
	Publisher Publisher
}

// RegisterActions registers built-in action factories with dependencies.
// Built-in actions need dependencies, so registration happens here rather than in init().
func RegisterActions(deps *Dependencies) {
	if deps == nil {
		deps = &Dependencies{}
	}

	action.RegisterActionType(AwardScoreActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewAwardScoreAction(config), nil
	})

	action.RegisterActionType(AnnounceActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewAnnounceAction(config, deps.Publisher), nil
	})
}
