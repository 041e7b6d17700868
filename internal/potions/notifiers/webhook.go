package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/daniacca/potions/internal/potions"
)

// WebhookNotifier posts discovery events to a URL. Events for potions worth
// less than the configured minimum are skipped.
type WebhookNotifier struct {
	id       string
	url      string
	client   *http.Client
	headers  map[string]string
	minValue float64
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(id, url string) *WebhookNotifier {
	return &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader sets a custom header to include in webhook requests
func (wn *WebhookNotifier) SetHeader(key, value string) {
	if wn.headers == nil {
		wn.headers = make(map[string]string)
	}
	wn.headers[key] = value
}

// SetMinPotionValue skips events whose potion is worth less than v. Zero
// forwards everything, including worthless potions.
func (wn *WebhookNotifier) SetMinPotionValue(v float64) {
	wn.minValue = v
}

// ID returns the notifier ID
func (wn *WebhookNotifier) ID() string {
	return wn.id
}

// Type returns the notifier type
func (wn *WebhookNotifier) Type() string {
	return "webhook"
}

// Notify posts the event to the webhook URL
func (wn *WebhookNotifier) Notify(ctx context.Context, event potions.DiscoveryEvent) error {
	if event.Discovery.PotionValue < wn.minValue {
		return nil
	}

	jsonData, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Potions-Alchemist", string(event.AlchemistID))
	req.Header.Set("X-Potions-Sequence", strconv.FormatInt(event.Sequence, 10))
	for key, value := range wn.headers {
		req.Header.Set(key, value)
	}

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting discovery %d: %w", event.Sequence, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook %s returned status %d", wn.url, resp.StatusCode)
	}
	return nil
}

// Close closes the notifier (no-op for webhook)
func (wn *WebhookNotifier) Close() error {
	return nil
}
