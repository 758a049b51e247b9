// Package notify posts stock events to an operator-configured webhook.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tidianess/assetflow/internal/config"
)

// Client exposes the outbound notification operations used by the application.
type Client interface {
	SendEvent(ctx context.Context, event Event) error
}

// Event is the JSON payload delivered to the webhook.
type Event struct {
	Kind      string    `json:"kind"`
	ItemCode  string    `json:"item_code"`
	Quantity  float64   `json:"quantity,omitempty"`
	Balance   float64   `json:"balance,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Event kinds emitted by the services.
const (
	EventIssuanceRecorded = "issuance_recorded"
	EventLowStock         = "low_stock"
	EventReconciled       = "balance_reconciled"
)

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client using the provided configuration values.
func NewClient(cfg config.NotifyConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// SendEvent delivers the event payload. Failures are returned to the caller
// and never retried here; notifications are best effort.
func (c *WebhookClient) SendEvent(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post webhook event %s: %w", event.Kind, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook rejected event %s: status %d", event.Kind, resp.StatusCode())
	}

	return nil
}
