// Package config loads the service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"

	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultOpenAIModel = "gpt-4o-mini"

	DefaultFoursquareBaseURL = "https://api.foursquare.com/v3"
	DefaultTavilyBaseURL     = "https://api.tavily.com"
)

type Config struct {
	FoursquareAPIKey  string
	FoursquareBaseURL string
	TavilyAPIKey      string
	TavilyBaseURL     string

	LLMProvider string
	LLMAPIKey   string
	LLMBaseURL  string
	LLMModel    string

	RequestTimeout time.Duration
	MaxIterations  int
	ResultLimit    int

	Port        int
	DatabaseURL string
	SQLitePath  string
	LogLevel    string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, falling back to environment variables", "error", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		FoursquareAPIKey:  getEnv("FOURSQUARE_API_KEY", ""),
		FoursquareBaseURL: getEnv("FOURSQUARE_BASE_URL", DefaultFoursquareBaseURL),
		TavilyAPIKey:      getEnv("TAVILY_API_KEY", ""),
		TavilyBaseURL:     getEnv("TAVILY_BASE_URL", DefaultTavilyBaseURL),

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", ProviderGroq)),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.LLMProvider {
	case ProviderGroq:
		cfg.LLMAPIKey = getEnv("GROQ_API_KEY", "")
		cfg.LLMBaseURL = getEnv("LLM_BASE_URL", DefaultGroqBaseURL)
		cfg.LLMModel = getEnv("LLM_MODEL", DefaultGroqModel)
	case ProviderOpenAI:
		cfg.LLMAPIKey = getEnv("OPENAI_API_KEY", "")
		cfg.LLMBaseURL = getEnv("LLM_BASE_URL", "")
		cfg.LLMModel = getEnv("LLM_MODEL", DefaultOpenAIModel)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxIterations, err = getInt("MAX_ITERATIONS", 8); err != nil {
		return nil, err
	}
	if cfg.ResultLimit, err = getInt("RESULT_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.Port, err = getInt("PORT", 8000); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings without which the service cannot answer queries.
// Missing place source keys are tolerated; the lookups report them in-band.
func (c *Config) Validate() error {
	var errs []error
	if c.LLMAPIKey == "" {
		errs = append(errs, fmt.Errorf("missing API key for LLM provider %s", c.LLMProvider))
	}
	if c.LLMModel == "" {
		errs = append(errs, errors.New("missing LLM model"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// getEnv treats an empty variable as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
