/**
 * @description
 * This package provides a client for the hosted payment gateway. It submits a
 * finalized checkout order and receives either a redirect URL to the hosted
 * payment page or a directly confirmed order id.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, net/http, time: Standard Go libraries.
 */
package paymentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ashva/checkout-service/internal/domain"
)

// Client is a client for the payment gateway API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new payment gateway client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrorResponse represents an error returned by the gateway API.
type ErrorResponse struct {
	Err struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (e *ErrorResponse) Error() string {
	if e.Err.Code != "" {
		return fmt.Sprintf("gateway error: %s - %s", e.Err.Code, e.Err.Description)
	}
	return "unknown gateway error"
}

// CreateOrder submits a finalized checkout to the gateway. All failures are
// wrapped in ErrGatewayUnavailable so callers can treat them uniformly as
// retryable.
func (c *Client) CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/v1/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read order response: %v", domain.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
			log.Printf("level=warn component=payment_client op=create_order status=%d msg=\"non-2xx response (unparsable error body)\"", resp.StatusCode)
			return nil, fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
		}
		log.Printf("level=warn component=payment_client op=create_order status=%d code=%q detail=%q", resp.StatusCode, errResp.Err.Code, errResp.Err.Description)
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, &errResp)
	}

	var orderResp domain.OrderResponse
	if err := json.Unmarshal(bodyBytes, &orderResp); err != nil {
		return nil, fmt.Errorf("%w: decode order response: %v", domain.ErrGatewayUnavailable, err)
	}
	if orderResp.OrderID == "" {
		return nil, fmt.Errorf("%w: order response missing order id", domain.ErrGatewayUnavailable)
	}

	return &orderResp, nil
}
