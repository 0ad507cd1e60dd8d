package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LLM provider selection values.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderNone   = "none"
)

// Config holds the configuration for the application.
type Config struct {
	DBPath string
	UserID string

	// Classifier backend
	LLMProvider  string
	GeminiAPIKey string
	GroqAPIKey   string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64

	// Share link signing
	ShareSecret  string
	ShareBaseURL string
}

// NewFromEnv creates a new Config object from environment variables,
// loading a .env file first when one is present.
func NewFromEnv() (*Config, error) {
	// A missing .env file is fine; real env vars always win.
	_ = godotenv.Load()

	dbPath := os.Getenv("SHOPPING_DB_PATH")
	if dbPath == "" {
		dbPath = "data/shopping.db"
	}

	userID := os.Getenv("SHOPPING_USER_ID")
	if userID == "" {
		userID = "default"
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")

	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	switch provider {
	case "":
		// Infer from available keys; no key means classification is off.
		switch {
		case geminiAPIKey != "":
			provider = ProviderGemini
		case groqAPIKey != "":
			provider = ProviderGroq
		default:
			provider = ProviderNone
		}
	case ProviderGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	case ProviderNone:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}

	allowedIDs, err := parseUserIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DBPath:                 dbPath,
		UserID:                 userID,
		LLMProvider:            provider,
		GeminiAPIKey:           geminiAPIKey,
		GroqAPIKey:             groqAPIKey,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		ShareSecret:            os.Getenv("SHARE_SECRET"),
		ShareBaseURL:           os.Getenv("SHARE_BASE_URL"),
	}, nil
}

// ValidateTelegram checks the variables only the bot binary requires.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func parseUserIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
