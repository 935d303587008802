package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultModel = "claude-sonnet-4-20250514"

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL           string
	DBMaxOpenConns        int
	DBMaxIdleConns        int
	HTTPPort              string
	AnthropicAPIKey       string // empty means the model capability is disabled
	AnthropicModel        string
	AnthropicTimeout      time.Duration
	TelegramToken         string // empty disables the Telegram push channel
	CronSpecDailySummary  string
	NotificationBodyLimit int
	SummaryConcurrency    int
	LogLevel              string
	Environment           string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	var err error
	cfg.DBMaxOpenConns, err = intEnv("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxIdleConns, err = intEnv("DB_MAX_IDLE_CONNS", 25)
	if err != nil {
		return nil, err
	}

	cfg.HTTPPort = os.Getenv("HTTP_PORT")
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}

	// Absence of the API key is an expected state, not an error: the service
	// then runs on the deterministic template narratives.
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	cfg.AnthropicModel = os.Getenv("ANTHROPIC_MODEL")
	if cfg.AnthropicModel == "" {
		cfg.AnthropicModel = defaultModel
	}

	timeoutStr := os.Getenv("ANTHROPIC_TIMEOUT")
	if timeoutStr == "" {
		cfg.AnthropicTimeout = 30 * time.Second
	} else {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ANTHROPIC_TIMEOUT: %w", err)
		}
		cfg.AnthropicTimeout = d
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.CronSpecDailySummary = os.Getenv("CRON_SPEC_DAILY_SUMMARIES")
	if cfg.CronSpecDailySummary == "" {
		cfg.CronSpecDailySummary = "0 17 * * 1-5" // Default: 5 PM on weekdays
	}

	cfg.NotificationBodyLimit, err = intEnv("NOTIFICATION_BODY_LIMIT", 150)
	if err != nil {
		return nil, err
	}

	cfg.SummaryConcurrency, err = intEnv("SUMMARY_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if cfg.SummaryConcurrency < 1 {
		cfg.SummaryConcurrency = 1
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
