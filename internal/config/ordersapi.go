package config

import (
	"fmt"
	"strings"
)

// OrdersAPIConfig holds credentials and endpoints for the railcard orders API
type OrdersAPIConfig struct {
	AuthURL              string
	ClientID             string
	ClientSecret         string
	OrdersAPIURL         string
	RailcardClientID     string
	RailcardClientSecret string
}

// LoadOrdersAPIConfig loads orders API configuration from environment variables
func LoadOrdersAPIConfig(getenv func(string) string) (*OrdersAPIConfig, error) {
	config := &OrdersAPIConfig{
		AuthURL:              getenv("ORDERS_AUTH_URL"),
		ClientID:             getenv("ORDERS_CLIENT_ID"),
		ClientSecret:         getenv("ORDERS_CLIENT_SECRET"),
		OrdersAPIURL:         getenv("ORDERS_API_URL"),
		RailcardClientID:     getenv("RAILCARD_CLIENT_ID"),
		RailcardClientSecret: getenv("RAILCARD_CLIENT_SECRET"),
	}

	// Validate required fields
	if config.AuthURL == "" {
		return nil, fmt.Errorf("ORDERS_AUTH_URL is required")
	}
	if config.ClientID == "" {
		return nil, fmt.Errorf("ORDERS_CLIENT_ID is required")
	}
	if config.ClientSecret == "" {
		return nil, fmt.Errorf("ORDERS_CLIENT_SECRET is required")
	}
	if config.OrdersAPIURL == "" {
		return nil, fmt.Errorf("ORDERS_API_URL is required")
	}
	if config.RailcardClientID == "" {
		return nil, fmt.Errorf("RAILCARD_CLIENT_ID is required")
	}
	if config.RailcardClientSecret == "" {
		return nil, fmt.Errorf("RAILCARD_CLIENT_SECRET is required")
	}

	// Endpoint paths are joined onto the base URL
	if !strings.HasSuffix(config.OrdersAPIURL, "/") {
		config.OrdersAPIURL += "/"
	}

	return config, nil
}
