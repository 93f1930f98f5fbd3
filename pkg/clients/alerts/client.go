// Package alerts delivers low-stock notifications to an external webhook.
package alerts

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dbautista/palomitas/internal/domain/models"
)

// Notifier receives low-stock signals raised during reconciliation and by
// the scheduled digest.
type Notifier interface {
	LowStock(ctx context.Context, item models.InventoryItem) error
	Digest(ctx context.Context, items []models.InventoryItem) error
}

// WebhookClient is a resty-backed Notifier posting JSON payloads to a
// configured URL.
type WebhookClient struct {
	httpClient *resty.Client
}

// NewWebhookClient builds a webhook notifier for the given URL.
func NewWebhookClient(url string) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(url).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &WebhookClient{httpClient: restyClient}
}

type itemPayload struct {
	Event        string  `json:"event"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	ReorderLevel float64 `json:"reorder_level"`
	Critical     bool    `json:"critical"`
}

// LowStock posts a single-item threshold alert.
func (c *WebhookClient) LowStock(ctx context.Context, item models.InventoryItem) error {
	payload := itemPayload{
		Event:        "low_stock",
		Name:         item.Name,
		Category:     string(item.Category),
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		ReorderLevel: item.ReorderLevel,
		Critical:     item.CriticalStock(),
	}

	resp, err := c.httpClient.R().SetContext(ctx).SetBody(payload).Post("")
	if err != nil {
		return fmt.Errorf("post low stock alert: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("low stock alert rejected with status %d", resp.StatusCode())
	}
	return nil
}

// Digest posts the full list of items currently at or below threshold.
func (c *WebhookClient) Digest(ctx context.Context, items []models.InventoryItem) error {
	payloads := make([]itemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, itemPayload{
			Event:        "low_stock_digest",
			Name:         item.Name,
			Category:     string(item.Category),
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			ReorderLevel: item.ReorderLevel,
			Critical:     item.CriticalStock(),
		})
	}

	resp, err := c.httpClient.R().SetContext(ctx).SetBody(payloads).Post("")
	if err != nil {
		return fmt.Errorf("post low stock digest: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("low stock digest rejected with status %d", resp.StatusCode())
	}
	return nil
}

// Nop is a Notifier that discards every alert. Used when no webhook is
// configured.
type Nop struct{}

func (Nop) LowStock(context.Context, models.InventoryItem) error { return nil }
func (Nop) Digest(context.Context, []models.InventoryItem) error { return nil }
