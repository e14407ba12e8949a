package config

import "fmt"

// defaultCRMInstanceURL is the fallback instance when the auth response does
// not return one
const defaultCRMInstanceURL = "https://rdg--uat.sandbox.my.salesforce.com"

// CRMConfig holds credentials for the back-office CRM API used to approve
// railcard orders
type CRMConfig struct {
	AuthURL      string
	ClientID     string
	ClientSecret string
	InstanceURL  string
}

// LoadCRMConfig loads CRM configuration from environment variables
func LoadCRMConfig(getenv func(string) string) (*CRMConfig, error) {
	config := &CRMConfig{
		AuthURL:      getenv("CRM_AUTH_URL"),
		ClientID:     getenv("CRM_CLIENT_ID"),
		ClientSecret: getenv("CRM_CLIENT_SECRET"),
		InstanceURL:  getenv("CRM_INSTANCE_URL"),
	}

	// Validate required fields
	if config.AuthURL == "" {
		return nil, fmt.Errorf("CRM_AUTH_URL is required")
	}
	if config.ClientID == "" {
		return nil, fmt.Errorf("CRM_CLIENT_ID is required")
	}
	if config.ClientSecret == "" {
		return nil, fmt.Errorf("CRM_CLIENT_SECRET is required")
	}
	if config.InstanceURL == "" {
		config.InstanceURL = defaultCRMInstanceURL
	}

	return config, nil
}
