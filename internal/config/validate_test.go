package config

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Store:  StoreConfig{Driver: "sqlite"},
		DB:     DBConfig{Path: "memory.db"},
		Redis:  RedisConfig{Host: "localhost", Port: 6379, Key: "dost:turns"},
		LLM: LLMConfig{
			APIKey: "sk-test", Model: "gpt-4o-mini", MaxTokens: 150, Temperature: 0.8, Timeout: 30 * time.Second,
		},
		Search: SearchConfig{APIKey: "brave-test", BaseURL: "http://localhost", Timeout: 10 * time.Second},
		Chat:   ChatConfig{HistoryLimit: 10, DefaultName: "Arkadaşım", Timezone: "Europe/Istanbul"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_MissingAPIKeysOnlyWarn(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	cfg.Search.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected missing keys to be non-fatal, got: %v", err)
	}
}

func TestValidate_UnknownStoreDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Driver = "postgres"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected STORE_DRIVER error, got: %v", err)
	}
}

func TestValidate_RedisPortCheckedOnlyForRedisDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Port = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite driver should ignore redis port, got: %v", err)
	}

	cfg.Store.Driver = "redis"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "REDIS_PORT") {
		t.Fatalf("expected REDIS_PORT error, got: %v", err)
	}
}

func TestValidate_TemperatureRange(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Temperature = 2.5
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "LLM_TEMPERATURE") {
		t.Fatalf("expected LLM_TEMPERATURE error, got: %v", err)
	}
}

func TestValidate_UnknownTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Chat.Timezone = "Mars/Olympus"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "CHAT_TIMEZONE") {
		t.Fatalf("expected CHAT_TIMEZONE error, got: %v", err)
	}
}

func TestValidate_PortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Fatalf("expected SERVER_PORT error, got: %v", err)
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Chat.HistoryLimit = -1
	cfg.LLM.MaxTokens = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"SERVER_PORT", "CHAT_HISTORY_LIMIT", "LLM_MAX_TOKENS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in error, got: %v", want, err)
		}
	}
}
