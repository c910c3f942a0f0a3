package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseURL string

	Auth struct {
		APIURL string
		APIKey string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	authAPIURL := os.Getenv("AUTH_API_URL")
	if authAPIURL == "" {
		return nil, fmt.Errorf("AUTH_API_URL must be set")
	}

	authAPIKey := os.Getenv("AUTH_API_KEY")
	if authAPIKey == "" {
		return nil, fmt.Errorf("AUTH_API_KEY must be set")
	}

	cfg := &Config{
		ServerPort:  serverPort,
		DatabaseURL: databaseURL,
	}
	cfg.Auth.APIURL = authAPIURL
	cfg.Auth.APIKey = authAPIKey

	return cfg, nil
}
