package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds process configuration sourced from the environment.
type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	RegistryBaseURL string
	JWTSecret       string
	DocumentsFile   string
	AllowedOrigins  []string
}

// Load reads .env if present and assembles the runtime configuration.
// MONGO_URI and REGISTRY_BASE_URL are required; everything else has a
// development default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   getEnv("MONGO_DB", "pharmaport"),
		RegistryBaseURL: os.Getenv("REGISTRY_BASE_URL"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		DocumentsFile:   getEnv("DOCUMENTS_FILE", "config/documents.yaml"),
		AllowedOrigins:  []string{getEnv("ALLOWED_ORIGIN", "http://localhost:3000")},
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.RegistryBaseURL == "" {
		return nil, fmt.Errorf("REGISTRY_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
