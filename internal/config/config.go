package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string // optional; parse history is disabled when empty

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string
}

// Load reads configuration once at startup. A missing API key is a startup
// error, never a per-request one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	apiKey, err := resolveAPIKey()
	if err != nil {
		return nil, err
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:         port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: apiKey,
		GeminiModel:  model,
	}, nil
}

// resolveAPIKey prefers a mounted secret file over the plain environment
// variable.
func resolveAPIKey() (string, error) {
	if path := os.Getenv("GEMINI_API_KEY_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read GEMINI_API_KEY_FILE: %w", err)
		}
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, nil
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY not found in secrets or environment variables")
}
