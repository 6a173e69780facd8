// Package storefront is the REST client for the distributor ordering API:
// catalog queries, order submission and the OTP session handshake.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/pkg/logger"
)

// Client talks to the ordering API
type Client struct {
	config     Config
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a new API client. tokens may be nil for endpoints that do
// not require a session.
func NewClient(config Config, tokens TokenSource) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}, nil
}

// SearchProducts queries the catalog. query may be empty; page is 1-based.
func (c *Client) SearchProducts(ctx context.Context, query string, page, pageSize int) ([]model.Product, int, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	if query != "" {
		params.Set("search", query)
	}

	body, status, err := c.doRequest(ctx, http.MethodGet, "products", params, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProductFetch, err)
	}
	if status != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: %s", ErrProductFetch, apiErrorMessage(status, body))
	}

	products, total, err := decodeProductList(body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProductFetch, err)
	}
	return products, total, nil
}

// LookupProduct resolves a single product by exact SKU match.
func (c *Client) LookupProduct(ctx context.Context, sku string) (*model.Product, error) {
	products, _, err := c.SearchProducts(ctx, sku, 1, 10)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].SKU == sku {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
}

// SubmitOrder sends the cart lines for review and returns the created order.
func (c *Client) SubmitOrder(ctx context.Context, lines []model.CartLine) (*model.Order, error) {
	body, status, err := c.doRequest(ctx, http.MethodPost, "orders", nil, SubmitOrderRequest{Items: lines})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderSubmission, err)
	}
	if status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErrorMessage(status, body))
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrOrderSubmission, apiErrorMessage(status, body))
	}

	var resp struct {
		Order model.Order `json:"order"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrOrderSubmission, err)
	}
	return &resp.Order, nil
}

// ListOrders returns the caller's orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "orders", nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErrorMessage(status, body))
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", status, apiErrorMessage(status, body))
	}

	var resp struct {
		Orders []model.Order `json:"orders"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return resp.Orders, nil
}

// GetOrder fetches one order by its number.
func (c *Client) GetOrder(ctx context.Context, number string) (*model.Order, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "orders/"+url.PathEscape(number), nil, nil)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, number)
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErrorMessage(status, body))
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", status, apiErrorMessage(status, body))
	}

	var resp struct {
		Order model.Order `json:"order"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &resp.Order, nil
}

// RequestOTP asks the server to issue a one-time code for the phone number.
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	body, status, err := c.doRequest(ctx, http.MethodPost, "auth/otp/request", nil, map[string]string{"phone": phone})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrAuthFailed, apiErrorMessage(status, body))
	}
	return nil
}

// VerifyOTP exchanges a one-time code for a session token.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	body, status, err := c.doRequest(ctx, http.MethodPost, "auth/otp/verify", nil, map[string]string{
		"phone": phone,
		"code":  code,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrAuthFailed, apiErrorMessage(status, body))
	}

	var resp struct {
		Session Session `json:"session"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode session: %v", ErrAuthFailed, err)
	}
	return &resp.Session, nil
}

// doRequest performs an HTTP request against the API, attaching the bearer
// token when one is available.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, payload interface{}) ([]byte, int, error) {
	endpoint := fmt.Sprintf("%s/%s", c.config.BaseURL, path)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("API request", map[string]interface{}{
		"method": method,
		"url":    endpoint,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func apiErrorMessage(status int, body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fmt.Sprintf("status %d", status)
}
