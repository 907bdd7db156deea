package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"

	defaultGeminiModel = "gemini-2.5-flash"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultGroqAPIURL  = "https://api.groq.com/openai/v1/chat/completions"
	defaultTemperature = 0.7
	defaultPort        = "8080"
)

// Config holds the configuration for the application.
type Config struct {
	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string
	GroqAPIURL   string

	// Generation
	Temperature       float32
	GenerationTimeout time.Duration

	// Optional SQLite file for token usage metrics. Empty disables the store.
	MetricsDBPath string

	Port      string
	LogLevel  string
	LogPretty bool

	// Origins allowed to call the JSON API from a browser. Empty disables CORS.
	CORSAllowedOrigins []string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = ProviderGemini
	}

	cfg := &Config{
		LLMProvider:        provider,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", defaultGeminiModel),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GroqModel:          getEnv("GROQ_MODEL", defaultGroqModel),
		GroqAPIURL:         getEnv("GROQ_API_URL", defaultGroqAPIURL),
		Temperature:        defaultTemperature,
		MetricsDBPath:      os.Getenv("METRICS_DB_PATH"),
		Port:               getEnv("PORT", defaultPort),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	switch provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q: expected %s or %s", provider, ProviderGemini, ProviderGroq)
	}

	if raw := os.Getenv("GENERATION_TEMPERATURE"); raw != "" {
		t, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATION_TEMPERATURE %q: %w", raw, err)
		}
		if t <= 0 || t > 2 {
			return nil, fmt.Errorf("GENERATION_TEMPERATURE must be in (0, 2], got %v", t)
		}
		cfg.Temperature = float32(t)
	}

	if raw := os.Getenv("GENERATION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATION_TIMEOUT %q: %w", raw, err)
		}
		cfg.GenerationTimeout = d
	}

	if raw := os.Getenv("LOG_PRETTY"); raw != "" {
		pretty, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_PRETTY %q: %w", raw, err)
		}
		cfg.LogPretty = pretty
	}

	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}

	// Telegram Config (Optional for CLI, required for Bot)
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		ids, err := parseUserIDs(raw)
		if err != nil {
			return nil, err
		}
		cfg.TelegramAllowedUserIDs = ids
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseUserIDs(raw string) ([]int64, error) {
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
