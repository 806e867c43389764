package messaging

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
)

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}
	return logger
}

func receive(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case message, ok := <-ch:
		if !ok {
			t.Fatal("send channel closed unexpectedly")
		}
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return nil
}

func TestActivityBroadcasterFansOut(t *testing.T) {
	b := NewActivityBroadcaster(16, quietLogger(t))
	go b.Run()

	client := &ActivityClient{Send: make(chan []byte, 32)}
	b.Register(client)

	b.Publish(ActivityEvent{
		RequestID: "req-1",
		Method:    "PUT",
		Endpoint:  "/character",
		Status:    200,
		Outcome:   "unwrapped",
		Timestamp: time.Now(),
	})

	var event ActivityEvent
	if err := json.Unmarshal(receive(t, client.Send), &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if event.RequestID != "req-1" || event.Method != "PUT" || event.Status != 200 {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestActivityBroadcasterReplaysForLateJoiners(t *testing.T) {
	b := NewActivityBroadcaster(16, quietLogger(t))
	go b.Run()

	for i := 0; i < 3; i++ {
		b.Publish(ActivityEvent{RequestID: "req", Status: 200 + i})
	}

	// Publishes are async; wait until all three are in the replay ring.
	deadline := time.Now().Add(time.Second)
	for len(b.events) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	client := &ActivityClient{Send: make(chan []byte, 32)}
	b.Register(client)

	for want := 200; want < 203; want++ {
		var event ActivityEvent
		if err := json.Unmarshal(receive(t, client.Send), &event); err != nil {
			t.Fatalf("failed to decode replayed event: %v", err)
		}
		if event.Status != want {
			t.Errorf("expected replay in order, got status %d want %d", event.Status, want)
		}
	}
}

func TestActivityBroadcasterReplayIsBounded(t *testing.T) {
	b := NewActivityBroadcaster(2, quietLogger(t))
	go b.Run()

	for i := 0; i < 5; i++ {
		b.Publish(ActivityEvent{Status: 100 + i})
	}
	deadline := time.Now().Add(time.Second)
	for len(b.events) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	client := &ActivityClient{Send: make(chan []byte, 32)}
	b.Register(client)

	var first ActivityEvent
	if err := json.Unmarshal(receive(t, client.Send), &first); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if first.Status != 103 {
		t.Errorf("expected oldest events trimmed, got status %d", first.Status)
	}

	var second ActivityEvent
	if err := json.Unmarshal(receive(t, client.Send), &second); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if second.Status != 104 {
		t.Errorf("expected newest event last, got status %d", second.Status)
	}

	select {
	case extra := <-client.Send:
		t.Errorf("expected only 2 replayed events, got extra %s", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestActivityBroadcasterUnregisterClosesSend(t *testing.T) {
	b := NewActivityBroadcaster(16, quietLogger(t))
	go b.Run()

	client := &ActivityClient{Send: make(chan []byte, 32)}
	b.Register(client)
	b.Unregister(client)

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Error("expected send channel closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", b.ClientCount())
	}
}

func TestActivityBroadcasterSlowClientDoesNotBlock(t *testing.T) {
	b := NewActivityBroadcaster(16, quietLogger(t))
	go b.Run()

	// A full send buffer drops messages instead of stalling fan-out.
	slow := &ActivityClient{Send: make(chan []byte)}
	healthy := &ActivityClient{Send: make(chan []byte, 32)}
	b.Register(slow)
	b.Register(healthy)

	b.Publish(ActivityEvent{RequestID: "req-1", Status: 200})

	var event ActivityEvent
	if err := json.Unmarshal(receive(t, healthy.Send), &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if event.RequestID != "req-1" {
		t.Errorf("unexpected event %+v", event)
	}
}
