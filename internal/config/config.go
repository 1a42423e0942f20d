// Package config loads application settings from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr string
	DBPath   string

	// Outbreak analysis service.
	AnalysisURL     string
	AnalysisTimeout time.Duration
	HistoryLimit    int
	AnalysisCron    string // cron expression for the scheduled analysis sweep

	// Telegram notification, optional. Empty token disables notification.
	TelegramBotToken string
	TelegramChatID   int64

	// Water-quality collector.
	ScraperURL  string
	ScraperCron string

	AlertTTL time.Duration
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	// Load .env file if it exists; real environment variables win
	godotenv.Load()

	analysisTimeout, err := time.ParseDuration(envOrDefault("ANALYSIS_TIMEOUT", "5s"))
	if err != nil || analysisTimeout <= 0 {
		return nil, fmt.Errorf("invalid ANALYSIS_TIMEOUT: %v", err)
	}

	alertTTL, err := time.ParseDuration(envOrDefault("ALERT_TTL", "24h"))
	if err != nil || alertTTL <= 0 {
		return nil, fmt.Errorf("invalid ALERT_TTL: %v", err)
	}

	historyLimit := 500
	if s := os.Getenv("HISTORY_LIMIT"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid HISTORY_LIMIT: %s", s)
		}
		historyLimit = n
	}

	var chatID int64
	if s := os.Getenv("TELEGRAM_CHAT_ID"); s != "" {
		chatID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %s", s)
		}
	}

	cfg := &Config{
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		DBPath:           os.Getenv("DB_PATH"), // repository falls back to data/healthwatch.db
		AnalysisURL:      envOrDefault("ANALYSIS_URL", "http://localhost:5000/analyze"),
		AnalysisTimeout:  analysisTimeout,
		HistoryLimit:     historyLimit,
		AnalysisCron:     envOrDefault("ANALYSIS_CRON", "*/30 * * * *"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   chatID,
		ScraperURL:       os.Getenv("SCRAPER_URL"),
		ScraperCron:      envOrDefault("SCRAPER_CRON", "0 * * * *"),
		AlertTTL:         alertTTL,
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is set but TELEGRAM_CHAT_ID is not")
	}

	return cfg, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
