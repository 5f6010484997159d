package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	CORS         CORSConfig
	ExchangeRate ExchangeRateConfig
	Media        MediaConfig
	FernetKey    string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ExchangeRateConfig holds FX provider configuration. APIKey is the
// environment fallback; a key stored through the developer endpoint takes
// precedence over it.
type ExchangeRateConfig struct {
	BaseURL string
	APIKey  string
}

// MediaConfig holds the root directory under which rendered graph artifacts
// are written by the rendering collaborator.
type MediaConfig struct {
	Root string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_graphs.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		ExchangeRate: ExchangeRateConfig{
			BaseURL: getEnv("EXCHANGE_API_URL", "https://v6.exchangerate-api.com"),
			APIKey:  getEnv("EXCHANGE_API_KEY", ""),
		},
		Media: MediaConfig{
			Root: getEnv("MEDIA_ROOT", "./media"),
		},
		FernetKey: getEnv("FERNET_KEY", ""),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
