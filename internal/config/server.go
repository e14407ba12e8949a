package config

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default port
	}

	return ServerConfig{
		Port: port,
	}
}
