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
	"sync"
	"time"

	"github.com/railqa/railcheck/internal/config"
)

// tokenExpiryBuffer renews the CRM token a minute before it actually expires
const tokenExpiryBuffer = 60 * time.Second

// CRMClient handles communication with the back-office CRM API that holds
// railcard orders awaiting approval
type CRMClient interface {
	LookupOrderID(ctx context.Context, orderNumber string) (string, error)
	ApproveOrderItem(ctx context.Context, orderItemID string) error
	CompleteOrder(ctx context.Context, orderID string) error
}

// HTTPCRMClient implements CRMClient using HTTP with a cached OAuth2 token
type HTTPCRMClient struct {
	config     *config.CRMConfig
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	instanceURL string
	tokenExpiry time.Time
}

// NewCRMClient creates a new CRM API client
func NewCRMClient(cfg *config.CRMConfig) CRMClient {
	return &HTTPCRMClient{
		config:      cfg,
		httpClient:  &http.Client{},
		instanceURL: cfg.InstanceURL,
	}
}

// crmTokenResponse is the CRM OAuth2 token payload
type crmTokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// crmQueryResponse is the result of a CRM SOQL query
type crmQueryResponse struct {
	TotalSize int  `json:"totalSize"`
	Done      bool `json:"done"`
	Records   []struct {
		ID string `json:"Id"`
	} `json:"records"`
}

// LookupOrderID resolves a customer-facing order number to the CRM order ID
func (c *HTTPCRMClient) LookupOrderID(ctx context.Context, orderNumber string) (string, error) {
	token, instanceURL, err := c.validToken(ctx)
	if err != nil {
		return "", &ExternalServiceError{Service: "crm", Op: "authenticate", Err: err}
	}

	query := fmt.Sprintf("SELECT Id FROM Order WHERE OrderNumber = '%s'", orderNumber)
	queryURL := instanceURL + "/services/data/v60.0/query/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return "", &ExternalServiceError{Service: "crm", Op: "query order", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ExternalServiceError{Service: "crm", Op: "query order", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ExternalServiceError{Service: "crm", Op: "query order", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ExternalServiceError{
			Service: "crm",
			Op:      "query order",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result crmQueryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &ExternalServiceError{Service: "crm", Op: "parse query response", Err: err}
	}

	return extractOrderID(&result)
}

// extractOrderID validates the query result and returns the single order ID
func extractOrderID(result *crmQueryResponse) (string, error) {
	if result.TotalSize != 1 {
		return "", fmt.Errorf("expected exactly 1 order, got %d", result.TotalSize)
	}
	if !result.Done {
		return "", fmt.Errorf("query incomplete, done flag is false")
	}
	if len(result.Records) == 0 {
		return "", fmt.Errorf("no records found in response")
	}
	if result.Records[0].ID == "" {
		return "", fmt.Errorf("order ID not found in the first record")
	}
	return result.Records[0].ID, nil
}

// ApproveOrderItem marks an order line item's documents as received,
// validated and approved
func (c *HTTPCRMClient) ApproveOrderItem(ctx context.Context, orderItemID string) error {
	update := map[string]interface{}{
		"Documents_Received__c": true,
		"Validated__c":          true,
		"Status__c":             "Approved Application",
		"Eligible__c":           true,
	}

	log.Printf("Approving order item %s", orderItemID)
	return c.patchObject(ctx, "approve order item", "/services/data/v63.0/sobjects/OrderItem/"+url.PathEscape(orderItemID), update)
}

// CompleteOrder marks the CRM order as activated
func (c *HTTPCRMClient) CompleteOrder(ctx context.Context, orderID string) error {
	update := map[string]interface{}{
		"Status": "Activated",
	}

	log.Printf("Completing order %s", orderID)
	return c.patchObject(ctx, "complete order", "/services/data/v63.0/sobjects/Order/"+url.PathEscape(orderID), update)
}

// patchObject sends a PATCH update to a CRM object; the CRM answers 204 on
// success
func (c *HTTPCRMClient) patchObject(ctx context.Context, op, path string, update map[string]interface{}) error {
	token, instanceURL, err := c.validToken(ctx)
	if err != nil {
		return &ExternalServiceError{Service: "crm", Op: "authenticate", Err: err}
	}

	reqBody, err := json.Marshal(update)
	if err != nil {
		return &ExternalServiceError{Service: "crm", Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, instanceURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return &ExternalServiceError{Service: "crm", Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ExternalServiceError{Service: "crm", Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return &ExternalServiceError{
			Service: "crm",
			Op:      op,
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	return nil
}

// validToken returns a cached token, refreshing it when expired or missing
func (c *HTTPCRMClient) validToken(ctx context.Context) (token, instanceURL string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, c.instanceURL, nil
	}

	log.Println("Refreshing CRM token")

	params := url.Values{}
	params.Set("grant_type", "client_credentials")
	params.Set("client_id", c.config.ClientID)
	params.Set("client_secret", c.config.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthURL, strings.NewReader(params.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp crmTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", "", fmt.Errorf("failed to parse token response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	if tokenResp.InstanceURL != "" {
		c.instanceURL = tokenResp.InstanceURL
	}

	expiresIn := time.Hour
	if tokenResp.ExpiresIn > 0 {
		expiresIn = time.Duration(tokenResp.ExpiresIn) * time.Second
	}
	c.tokenExpiry = time.Now().Add(expiresIn - tokenExpiryBuffer)

	return c.accessToken, c.instanceURL, nil
}
