package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/railqa/railcheck/internal/config"
	"github.com/railqa/railcheck/internal/pricing"
)

// OrdersClient handles communication with the railcard orders API
type OrdersClient interface {
	ValidatePromo(ctx context.Context, code, sku string, price float64) (*pricing.PromoValidation, error)
	GetOrder(ctx context.Context, orderID string) (*RailcardOrder, error)
}

// HTTPOrdersClient implements OrdersClient using HTTP
type HTTPOrdersClient struct {
	config     *config.OrdersAPIConfig
	httpClient *http.Client
}

// NewOrdersClient creates a new orders API client
func NewOrdersClient(cfg *config.OrdersAPIConfig) OrdersClient {
	return &HTTPOrdersClient{
		config:     cfg,
		httpClient: &http.Client{},
	}
}

// validateRequest is the body of a promocode validation call
type validateRequest struct {
	Code     string            `json:"code"`
	Email    string            `json:"email"`
	Products []validateProduct `json:"products"`
}

// validateProduct is one priced product line in a validation call
type validateProduct struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
}

// tokenResponse is the OAuth2 client-credentials token payload
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RailcardOrder is the orders API representation of a placed order
type RailcardOrder struct {
	OrderLineItems []OrderLineItem `json:"orderLineItems"`
}

// OrderLineItem is one purchased railcard within an order
type OrderLineItem struct {
	ID string `json:"id"`
}

// FirstLineItemID returns the ID of the first order line item
func (o *RailcardOrder) FirstLineItemID() (string, error) {
	if len(o.OrderLineItems) == 0 {
		return "", fmt.Errorf("no order line items found")
	}
	if o.OrderLineItems[0].ID == "" {
		return "", fmt.Errorf("first order line item has no id")
	}
	return o.OrderLineItems[0].ID, nil
}

// ValidatePromo validates a promocode against the orders API for a product at
// the given price. The response carries promo tags and the discount in one of
// several shapes; shape handling belongs to the caller.
func (c *HTTPOrdersClient) ValidatePromo(ctx context.Context, code, sku string, price float64) (*pricing.PromoValidation, error) {
	reqBody, err := json.Marshal(validateRequest{
		Code:  code,
		Email: "",
		Products: []validateProduct{
			{Product: sku, Price: price},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.doAuthenticated(ctx, http.MethodPost, c.config.OrdersAPIURL+"validate", reqBody)
	if err != nil {
		return nil, &ExternalServiceError{Service: "orders-api", Op: "validate promocode", Err: err}
	}

	var validation pricing.PromoValidation
	if err := json.Unmarshal(body, &validation); err != nil {
		return nil, &ExternalServiceError{Service: "orders-api", Op: "parse validation response", Err: err}
	}

	return &validation, nil
}

// GetOrder retrieves railcard order details by order ID
func (c *HTTPOrdersClient) GetOrder(ctx context.Context, orderID string) (*RailcardOrder, error) {
	body, err := c.doAuthenticated(ctx, http.MethodGet, c.config.OrdersAPIURL+"orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, &ExternalServiceError{Service: "orders-api", Op: "get order", Err: err}
	}

	var order RailcardOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, &ExternalServiceError{Service: "orders-api", Op: "parse order response", Err: err}
	}

	return &order, nil
}

// doAuthenticated fetches a fresh token, sends the request with auth headers
// and returns the response body
func (c *HTTPOrdersClient) doAuthenticated(ctx context.Context, method, apiURL string, reqBody []byte) ([]byte, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewBuffer(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("client_id", c.config.RailcardClientID)
	req.Header.Set("client_secret", c.config.RailcardClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Orders API error (status %d): %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// getAccessToken fetches a fresh OAuth2 token using the client credentials flow
func (c *HTTPOrdersClient) getAccessToken(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("client_id", c.config.ClientID)
	params.Set("client_secret", c.config.ClientSecret)
	params.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthURL, strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	log.Printf("Orders API token received: %s", shortenToken(token.AccessToken))

	return token.AccessToken, nil
}

// shortenToken trims a token for logging: first 8 + last 4 characters
func shortenToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:8] + "..." + token[len(token)-4:]
}
