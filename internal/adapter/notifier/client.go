package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/etproforma/commerce/internal/domain/model"
)

// Client delivers order events to the external notification service.
// Delivery is fire-and-forget from the core's point of view: callers log
// failures but never roll anything back because of them.
type Client interface {
	Notify(ctx context.Context, event model.OrderEvent) error
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type notification struct {
	UserID  int64  `json:"user_id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// NewHTTPClient creates an HTTP notifier client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notifier url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notifier url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

// Notify posts one order event to the notification service.
func (c *HTTPClient) Notify(ctx context.Context, event model.OrderEvent) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/notifications")

	body, err := json.Marshal(notification{
		UserID:  event.RecipientID,
		Type:    "order",
		Message: event.Message,
		OrderID: event.OrderID,
		Status:  string(event.Status),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("notification delivery failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("notifier answered %s", resp.Status)
	}
	return nil
}
