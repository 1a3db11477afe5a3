package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agentdao/subpay"
)

// HTTPNotifier delivers subscription lifecycle events to a webhook URL.
// Delivery is best effort: the caller logs failures and moves on.
type HTTPNotifier struct {
	url        string
	httpClient *http.Client
}

var _ subpay.WebhookNotifier = (*HTTPNotifier)(nil)

// NewHTTPNotifier creates a notifier posting to the given webhook URL.
func NewHTTPNotifier(url string, httpClient *http.Client) *HTTPNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPNotifier{url: url, httpClient: httpClient}
}

// Notify posts the event to the webhook endpoint.
func (n *HTTPNotifier) Notify(ctx context.Context, notification subpay.WebhookNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		responseBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(responseBody))
	}
	return nil
}
