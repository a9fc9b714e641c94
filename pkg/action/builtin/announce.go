package builtin

import (
	"context"

	"github.com/AccelByte/extend-countdown-challenge/pkg/action"
	"github.com/AccelByte/extend-countdown-challenge/pkg/feed"
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	"github.com/sirupsen/logrus"
)

// AnnounceActionID is the type identifier for display notices.
const AnnounceActionID = "announce"

// Publisher receives display events. *feed.Hub satisfies it.
type Publisher = feed.Publisher

// AnnounceAction pushes a notice to display subscribers.
// The message is taken from the trigger metadata, or from the
// "message" parameter, or finally from the trigger reason.
type AnnounceAction struct {
	config    action.ActionConfig
	message   string
	publisher Publisher
}

// NewAnnounceAction creates a new announce action. A nil publisher only logs.
func NewAnnounceAction(config action.ActionConfig, publisher Publisher) *AnnounceAction {
	return &AnnounceAction{
		config:    config,
		message:   config.GetParameterString("message", ""),
		publisher: publisher,
	}
}

// ID returns the action identifier.
func (a *AnnounceAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *AnnounceAction) Name() string {
	return "Announce"
}

// Config returns the action configuration.
func (a *AnnounceAction) Config() action.ActionConfig {
	return a.config
}

// Execute publishes the notice. When ctx carries a feed batch the notice is
// queued until the caller keeps the change.
func (a *AnnounceAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	notice := feed.Notice{Message: a.message}
	if msg, ok := trigger.MetadataString("message"); ok && msg != "" {
		notice.Message = msg
	}
	if notice.Message == "" {
		notice.Message = trigger.Reason
	}
	if reason, ok := trigger.MetadataString("reason"); ok {
		notice.Reason = reason
	}
	if points, ok := trigger.MetadataInt("points"); ok {
		notice.Points = points
	}

	logrus.Infof("notice: %s", notice.Message)

	if a.publisher == nil {
		return nil
	}

	ev := feed.Event{Type: feed.EventNotice, Data: notice}
	if playerCtx != nil {
		ev.At = playerCtx.Now
	}
	feed.PublishContext(ctx, a.publisher, ev)
	return nil
}

// Rollback is not supported; a published notice cannot be withdrawn.
func (a *AnnounceAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
