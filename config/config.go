// Package config loads the bot configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs to run. It is built once in main
// and passed by reference into every component.
type Config struct {
	// Discord
	DiscordToken string
	AdminUserID  string

	// Completion endpoint (OpenAI-compatible)
	LLMBaseURL  string
	LLMAPIKey   string
	TextModel   string
	VisionModel string
	LLMTimeout  time.Duration

	// Postgres
	PostgresURL string

	// News posting (disabled when APIKey is empty)
	GNewsAPIKey   string
	NewsLang      string
	NewsCountry   string
	NewsInterval  time.Duration
	NewsMaxCount  int

	// Idle-chat posting
	IdleInterval  time.Duration
	IdleThreshold time.Duration

	// History analysis
	MaxHistory int
	MinHistory int

	// Metrics / liveness server
	MetricsAddr string

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present, so local runs do not need
// exported variables.
func Load() (*Config, error) {
	// missing .env is fine, deployments set real env vars
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:  os.Getenv("DISCORD_SECRET"),
		AdminUserID:   os.Getenv("ADMIN_USER_ID"),
		LLMBaseURL:    os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		TextModel:     envOr("LLM_TEXT_MODEL", "mistral-large-latest"),
		VisionModel:   envOr("LLM_VISION_MODEL", "qwen2-vl-7b-instruct"),
		LLMTimeout:    envDuration("LLM_TIMEOUT", 60*time.Second),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		GNewsAPIKey:   os.Getenv("GNEWS_API_KEY"),
		NewsLang:      envOr("NEWS_LANG", "en"),
		NewsCountry:   envOr("NEWS_COUNTRY", "us"),
		NewsInterval:  envDuration("NEWS_INTERVAL", 6*time.Hour),
		NewsMaxCount:  envInt("NEWS_MAX_COUNT", 3),
		IdleInterval:  envDuration("IDLE_CHECK_INTERVAL", 15*time.Minute),
		IdleThreshold: envDuration("IDLE_THRESHOLD", 3*time.Hour),
		MaxHistory:    envInt("MAX_HISTORY", 200),
		MinHistory:    envInt("MIN_HISTORY", 10),
		MetricsAddr:   envOr("METRICS_ADDR", ":6060"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}

	required := map[string]string{
		"DISCORD_SECRET": cfg.DiscordToken,
		"LLM_BASE_URL":   cfg.LLMBaseURL,
		"LLM_API_KEY":    cfg.LLMAPIKey,
		"POSTGRES_URL":   cfg.PostgresURL,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", name)
		}
	}

	return cfg, nil
}

// NewsEnabled reports whether the news poster should be scheduled.
func (c *Config) NewsEnabled() bool {
	return c.GNewsAPIKey != ""
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
