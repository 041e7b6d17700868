package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/daniacca/potions/internal/potions"
)

func TestWebhookNotifier(t *testing.T) {
	var received potions.DiscoveryEvent
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier("hook", server.URL)
	notifier.SetHeader("Authorization", "Bearer token")

	if notifier.ID() != "hook" || notifier.Type() != "webhook" {
		t.Errorf("Unexpected id/type %s/%s", notifier.ID(), notifier.Type())
	}

	if err := notifier.Notify(context.Background(), testEvent(3, 50)); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if received.Sequence != 3 || received.Discovery.PotionValue != 50 {
		t.Errorf("Unexpected event received %+v", received)
	}
	if headers.Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %q", headers.Get("Content-Type"))
	}
	if headers.Get("X-Potions-Alchemist") != "tester" || headers.Get("X-Potions-Sequence") != "3" {
		t.Errorf("Unexpected potions headers %v", headers)
	}
	if headers.Get("Authorization") != "Bearer token" {
		t.Errorf("Expected custom header, got %q", headers.Get("Authorization"))
	}

	if err := notifier.Close(); err != nil {
		t.Errorf("Expected no error on close, got %v", err)
	}
}

func TestWebhookNotifier_MinPotionValue(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier("hook", server.URL)
	notifier.SetMinPotionValue(5)

	for _, value := range []float64{0, 1, 5, 50} {
		if err := notifier.Notify(context.Background(), testEvent(1, value)); err != nil {
			t.Fatalf("Notify(value=%v) failed: %v", value, err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("Expected only potions worth at least 5 to be posted, got %d posts", got)
	}
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier("hook", server.URL)
	if err := notifier.Notify(context.Background(), testEvent(1, 1)); err == nil {
		t.Error("Expected error for a 502 response")
	}
}

func TestWebhookNotifier_WithManagerRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mgr := potions.NewNotificationManager()
	if err := mgr.RegisterNotifier(NewWebhookNotifier("hook", server.URL)); err != nil {
		t.Fatal(err)
	}
	mgr.Enqueue(testEvent(1, 2), []string{"hook"})
	// Close drains the queue, retries included
	if err := mgr.Close(); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("Expected a failed post to be retried once, got %d calls", got)
	}
}
