package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"booking-service/internal/models"
)

// WebhookPayload is the JSON body posted to the webhook
type WebhookPayload struct {
	Title     string              `json:"title"`
	Fields    []models.EventField `json:"fields"`
	Timestamp string              `json:"timestamp"`
}

// Webhook posts booking summaries to an HTTP endpoint
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook sink. timeout bounds each request.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) Name() string {
	return "webhook"
}

// Send posts the event summary. Any non-2xx response is an error.
func (w *Webhook) Send(ctx context.Context, event *models.BookingCreatedEvent) error {
	body, err := json.Marshal(WebhookPayload{
		Title:     event.Summary,
		Fields:    event.Fields,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
