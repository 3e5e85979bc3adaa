package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
//
// Provider keys are not required at startup: a missing key surfaces as a
// generation or identity failure on first use.
type Config struct {
	Port      string `env:"PORT" env-default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogPretty bool   `env:"LOG_PRETTY" env-default:"false"`

	// Generation
	LLMProvider       string        `env:"LLM_PROVIDER" env-default:"gemini"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
	GroqAPIKey        string        `env:"GROQ_API_KEY"`
	GroqModel         string        `env:"GROQ_MODEL" env-default:"llama-3.3-70b-versatile"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" env-default:"60s"`

	// Identity provider
	IdentityAPIKey    string `env:"IDENTITY_API_KEY"`
	IdentityProjectID string `env:"IDENTITY_PROJECT_ID"`
	IdentityBaseURL   string `env:"IDENTITY_BASE_URL" env-default:"https://identitytoolkit.googleapis.com/v1"`

	// Sessions
	SessionSecret string        `env:"SESSION_SECRET" env-default:"change-me-in-production"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"24h"`
	SessionSecure bool          `env:"SESSION_SECURE" env-default:"false"`

	// Usage metrics database; empty disables metrics.
	DatabasePath string `env:"DATABASE_PATH" env-default:"data/mealmuse.db"`

	// Telegram Config (optional)
	TelegramBotToken       string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL     string  `env:"TELEGRAM_WEBHOOK_URL"`
	TelegramAllowedUserIDs []int64 `env:"TELEGRAM_ALLOWED_USER_IDS" env-separator:","`
}

// NewFromEnv creates a new Config object from environment variables,
// reading an optional .env file first.
func NewFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	switch cfg.LLMProvider {
	case "gemini", "groq":
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be gemini or groq, got %q", cfg.LLMProvider)
	}

	return &cfg, nil
}

// TelegramEnabled reports whether the Telegram front end should start.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// Usage prints the supported environment variables.
func Usage() {
	var cfg Config
	_ = cleanenv.FUsage(os.Stdout, &cfg, nil)()
}
