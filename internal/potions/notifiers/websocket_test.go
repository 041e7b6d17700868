package notifiers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/daniacca/potions/internal/potions"
	"github.com/gorilla/websocket"
)

func testEvent(seq int64, value float64) potions.DiscoveryEvent {
	return potions.DiscoveryEvent{
		AlchemistID: "tester",
		Sequence:    seq,
		Ingredients: [2]potions.IngredientID{1, 2},
		Discovery:   potions.Discovery{PotionValue: value},
	}
}

func dial(t *testing.T, notifier *WebSocketNotifier) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(notifier)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, notifier *WebSocketNotifier, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for notifier.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, have %d", n, notifier.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewWebSocketNotifier(t *testing.T) {
	notifier := NewWebSocketNotifier("test-ws")
	defer notifier.Close()

	if notifier.ID() != "test-ws" {
		t.Errorf("Expected ID 'test-ws', got '%s'", notifier.ID())
	}
	if notifier.Type() != "websocket" {
		t.Errorf("Expected type 'websocket', got '%s'", notifier.Type())
	}
	upgrader := notifier.GetUpgrader()
	if upgrader.ReadBufferSize == 0 || upgrader.WriteBufferSize == 0 {
		t.Error("Expected non-zero buffer sizes")
	}
}

func TestWebSocketNotifier_NotifyWithoutClients(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := notifier.Notify(ctx, testEvent(1, 0)); err != nil {
		t.Errorf("Expected no error with no clients, got %v", err)
	}
}

func TestWebSocketNotifier_Broadcast(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	first := dial(t, notifier)
	second := dial(t, notifier)
	waitForClients(t, notifier, 2)

	if err := notifier.Notify(context.Background(), testEvent(7, 5)); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	for i, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got potions.DiscoveryEvent
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("Client %d failed to read: %v", i, err)
		}
		if got.Sequence != 7 || got.Discovery.PotionValue != 5 || got.AlchemistID != "tester" {
			t.Errorf("Client %d got unexpected event %+v", i, got)
		}
	}
}

func TestWebSocketNotifier_ClientDisconnect(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	conn := dial(t, notifier)
	waitForClients(t, notifier, 1)

	conn.Close()
	waitForClients(t, notifier, 0)
}

func TestWebSocketNotifier_Close(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	conn := dial(t, notifier)
	waitForClients(t, notifier, 1)

	if err := notifier.Close(); err != nil {
		t.Errorf("Expected no error on close, got %v", err)
	}
	if err := notifier.Close(); err != nil {
		t.Errorf("Expected second close to be a no-op, got %v", err)
	}
	if notifier.ClientCount() != 0 {
		t.Errorf("Expected no clients after close, got %d", notifier.ClientCount())
	}
	if err := notifier.Notify(context.Background(), testEvent(1, 0)); err == nil {
		t.Error("Expected Notify to fail after close")
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the client connection to be closed")
	}
}
