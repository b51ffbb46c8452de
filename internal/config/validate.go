package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Validate checks Config for problems that would keep the server from starting.
// It collects all errors into a single joined error. Missing API keys are only
// warned about: the dependent feature reports itself unavailable per request.
func (c *Config) Validate() error {
	var errs []string

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, "DB_PATH is required for the sqlite store")
		}
	case "redis":
		if c.Redis.Port < 1 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER must be sqlite or redis, got %q", c.Store.Driver))
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("LLM_TEMPERATURE must be 0–2, got %g", c.LLM.Temperature))
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("LLM_MAX_TOKENS must be positive, got %d", c.LLM.MaxTokens))
	}
	if c.Chat.HistoryLimit < 1 {
		errs = append(errs, fmt.Sprintf("CHAT_HISTORY_LIMIT must be positive, got %d", c.Chat.HistoryLimit))
	}
	if _, err := time.LoadLocation(c.Chat.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("CHAT_TIMEZONE %q is not a known location", c.Chat.Timezone))
	}
	if c.Search.Timeout <= 0 {
		errs = append(errs, "SEARCH_TIMEOUT must be positive")
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, "LLM_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must not be negative")
	}

	// API keys: warn only
	if c.LLM.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is empty; chat requests will report the model as unavailable")
	}
	if c.Search.APIKey == "" {
		slog.Warn("BRAVE_API_KEY is empty; web_search calls will return no results")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
