package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/common"
	"github.com/AccelByte/extend-countdown-challenge/pkg/feed"

	"github.com/coder/websocket"
)

const streamWriteTimeout = 5 * time.Second

// Stream upgrades to a websocket and pushes feed events as JSON text
// messages, starting with the current snapshot.
func (a *API) Stream(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromRequest(r, "API.Stream")
	defer scope.Finish()

	// subscribe first so nothing published after the initial snapshot is missed
	events, cancel := a.feed.Subscribe()
	defer cancel()

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		scope.Log.Errorf("failed to accept websocket: %v", err)
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "stream ended")

	// the client never sends; CloseRead cancels ctx once it disconnects
	ctx := ws.CloseRead(scope.Ctx)

	status, err := a.tracker.Status()
	if err != nil {
		scope.Log.Errorf("failed to read status for stream: %v", err)
		ws.Close(websocket.StatusInternalError, err.Error())
		return
	}
	if err := writeEvent(ctx, ws, feed.Event{Type: feed.EventSnapshot, Data: status, At: time.Now()}); err != nil {
		scope.Log.Debugf("failed to send initial snapshot: %v", err)
		return
	}

	scope.Log.Info("stream client connected")

	for {
		select {
		case <-ctx.Done():
			scope.Log.Info("stream client disconnected")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(ctx, ws, ev); err != nil {
				scope.Log.Debugf("stream write failed: %v", err)
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, ws *websocket.Conn, ev feed.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()

	return ws.Write(ctx, websocket.MessageText, data)
}
