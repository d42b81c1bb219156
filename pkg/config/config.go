package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingConfig marks a required credential or connection setting that was
// not provided. Commands check their settings before making any network call.
var ErrMissingConfig = errors.New("missing configuration")

type Config struct {
	// Gmail OAuth2
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GmailUserID        string
	GoogleProjectID    string
	GooglePubSubTopic  string
	GoogleCredentials  string

	// Refreshed token persistence
	TokenFile   string
	TokenSecret string

	// IMAP (alternative mailbox provider)
	ImapServer   string
	ImapPort     int
	ImapUsername string
	ImapPassword string

	// Chroma
	ChromaURL        string
	ChromaAPIKey     string
	ChromaTenant     string
	ChromaDatabase   string
	ChromaCollection string

	// AI providers
	GeminiAPIKey  string
	OllamaBaseURL string
	OllamaModel   string
	AIProvider    string // "gemini", "ollama" or "auto"

	// Sync history database (optional)
	DatabaseURL string

	Port string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GmailUserID:        getEnv("GMAIL_USER_ID", "me"),
		GoogleProjectID:    getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic:  getEnv("GOOGLE_PUBSUB_TOPIC", "gmail-updates"),
		GoogleCredentials:  getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		TokenFile:   getEnv("TOKEN_FILE", ""),
		TokenSecret: getEnv("TOKEN_SECRET", ""),

		ImapServer:   getEnv("IMAP_SERVER", ""),
		ImapPort:     getEnvInt("IMAP_PORT", 993),
		ImapUsername: getEnv("IMAP_USERNAME", ""),
		ImapPassword: getEnv("IMAP_PASSWORD", ""),

		ChromaURL:        getEnv("CHROMA_URL", "http://localhost:8000"),
		ChromaAPIKey:     getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:     getEnv("CHROMA_TENANT", ""),
		ChromaDatabase:   getEnv("CHROMA_DATABASE", ""),
		ChromaCollection: getEnv("CHROMA_COLLECTION", "gmail_emails"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
		AIProvider:    getEnv("AI_PROVIDER", "auto"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port: getEnv("PORT", "8080"),
	}
}

// RequireGoogle verifies the OAuth2 client settings needed to reach Gmail.
func (c *Config) RequireGoogle() error {
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return fmt.Errorf("%w: GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required", ErrMissingConfig)
	}
	if c.GoogleRefreshToken == "" && c.TokenFile == "" {
		return fmt.Errorf("%w: GOOGLE_REFRESH_TOKEN or TOKEN_FILE is required", ErrMissingConfig)
	}
	return nil
}

// RequireImap verifies the settings for the IMAP mailbox provider.
func (c *Config) RequireImap() error {
	if c.ImapServer == "" || c.ImapUsername == "" || c.ImapPassword == "" {
		return fmt.Errorf("%w: IMAP_SERVER, IMAP_USERNAME and IMAP_PASSWORD are required", ErrMissingConfig)
	}
	return nil
}

// RequireEmbedding verifies the key for the collection's embedding function.
func (c *Config) RequireEmbedding() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY is required for embeddings", ErrMissingConfig)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
