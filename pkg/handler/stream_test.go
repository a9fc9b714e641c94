package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/feed"
	"github.com/coder/websocket"
)

// streamEvent mirrors feed.Event with a raw payload
type streamEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn) streamEvent {
	t.Helper()

	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if typ != websocket.MessageText {
		t.Fatalf("message type = %v, expected text", typ)
	}

	var ev streamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("failed to decode event %s: %v", data, err)
	}
	return ev
}

func TestAPI_Stream(t *testing.T) {
	api := setupTestAPI(t)
	srv := httptest.NewServer(api.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	first := readEvent(t, ctx, conn)
	if first.Type != feed.EventSnapshot {
		t.Fatalf("first event = %s, expected %s", first.Type, feed.EventSnapshot)
	}
	var snapshot struct {
		DaysLeft int `json:"daysLeft"`
	}
	if err := json.Unmarshal(first.Data, &snapshot); err != nil || snapshot.DaysLeft == 0 {
		t.Errorf("snapshot payload = %s", first.Data)
	}

	api.hub.Publish(feed.Event{
		Type: feed.EventNotice,
		Data: feed.Notice{Message: "Day 328 reached! +25 bonus points!", Reason: "day-328-bonus", Points: 25},
	})

	ev := readEvent(t, ctx, conn)
	if ev.Type != feed.EventNotice {
		t.Fatalf("event = %s, expected %s", ev.Type, feed.EventNotice)
	}
	var notice feed.Notice
	if err := json.Unmarshal(ev.Data, &notice); err != nil {
		t.Fatalf("failed to decode notice: %v", err)
	}
	if notice.Points != 25 || notice.Reason != "day-328-bonus" {
		t.Errorf("notice = %+v", notice)
	}
}

func TestAPI_Stream_ReleasesSubscription(t *testing.T) {
	api := setupTestAPI(t)
	srv := httptest.NewServer(api.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/stream", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	readEvent(t, ctx, conn)

	if got := api.hub.Subscribers(); got != 1 {
		t.Errorf("Subscribers() = %d, expected 1", got)
	}

	conn.Close(websocket.StatusNormalClosure, "")

	deadline := time.Now().Add(2 * time.Second)
	for api.hub.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not released after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
