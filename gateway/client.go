// Package gateway provides clients for the external subscription
// gateway: an HTTP client for the real service, an in-memory
// implementation for simulation and tests, and an outbound webhook
// notifier.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/agentdao/subpay"
)

// ClientConfig configures the HTTP subscription gateway client.
type ClientConfig struct {
	// URL is the base URL of the subscription gateway.
	URL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *http.Client

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout for requests (optional, defaults to 30s).
	Timeout time.Duration
}

// HTTPClient talks to a remote subscription gateway over HTTP. The
// gateway is the service of record for subscription lifecycle; this
// client treats it as opaque.
type HTTPClient struct {
	url        string
	httpClient *http.Client
	apiKey     string
}

var _ subpay.SubscriptionGateway = (*HTTPClient)(nil)

// NewHTTPClient creates a subscription gateway client.
func NewHTTPClient(config *ClientConfig) *HTTPClient {
	if config == nil {
		config = &ClientConfig{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		url:        config.URL,
		httpClient: httpClient,
		apiKey:     config.APIKey,
	}
}

// CreateSubscription asks the gateway to record a new subscription.
func (c *HTTPClient) CreateSubscription(ctx context.Context, userAddress, planID string, cycle subpay.BillingCycle) (*subpay.Subscription, error) {
	body := map[string]interface{}{
		"userAddress":  userAddress,
		"planId":       planID,
		"billingCycle": cycle,
	}

	var subscription subpay.Subscription
	if err := c.post(ctx, "/subscriptions", body, &subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

// CheckSubscription looks up the subscription state for an address.
func (c *HTTPClient) CheckSubscription(ctx context.Context, userAddress string) (*subpay.SubscriptionStatus, error) {
	endpoint := "/subscriptions/" + url.PathEscape(userAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &subpay.SubscriptionStatus{Active: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway status check failed (%d): %s", resp.StatusCode, string(responseBody))
	}

	var status subpay.SubscriptionStatus
	if err := json.Unmarshal(responseBody, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

// CancelSubscription cancels the subscription for an address.
func (c *HTTPClient) CancelSubscription(ctx context.Context, userAddress string) (bool, error) {
	endpoint := "/subscriptions/" + url.PathEscape(userAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url+endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create cancel request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("cancel request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("gateway cancel failed (%d): %s", resp.StatusCode, string(responseBody))
	}
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("gateway request failed (%d): %s", resp.StatusCode, string(responseBody))
	}

	if out != nil {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
