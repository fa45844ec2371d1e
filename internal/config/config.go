package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds client configuration
type Config struct {
	// Backend
	APIBaseURL     string
	RequestTimeout time.Duration

	// Local state
	StateDBPath string

	// Environment ("development" or "production")
	Env string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		APIBaseURL:  getEnv("FINTRACK_API_URL", "http://localhost:8080/api"),
		StateDBPath: getEnv("FINTRACK_STATE_DB", defaultStateDBPath()),
		Env:         getEnv("ENV", "development"),
	}

	// Parse request timeout
	timeoutStr := getEnv("REQUEST_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid REQUEST_TIMEOUT value '%s', falling back to 30s\n", timeoutStr)
		timeout = 30 * time.Second
	}
	config.RequestTimeout = timeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// defaultStateDBPath places the session state database under the user's
// home directory, falling back to the working directory when home is unknown.
func defaultStateDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fintrack-state.db"
	}
	return filepath.Join(home, ".fintrack", "state.db")
}
