package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	DB     DBConfig
	Redis  RedisConfig
	LLM    LLMConfig
	Search SearchConfig
	Chat   ChatConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	// WriteTimeout and ShutdownTimeout cover one full chat turn: two model
	// calls plus a search. Chat turns survive client disconnects, so a
	// shutdown must be able to wait for them.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects the conversation store backend.
type StoreConfig struct {
	Driver string // "sqlite" or "redis"
}

type DBConfig struct {
	Path string
}

// DSN returns the modernc sqlite DSN with the pragmas the store relies on.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.Path)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Key      string
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type SearchConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type ChatConfig struct {
	HistoryLimit int
	DefaultName  string
	Timezone     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: parsePort(k.String("server.port"), k.String("port")),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(k.String("store.driver")),
		},
		DB: DBConfig{
			Path: k.String("db.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
			Key:      k.String("redis.key"),
		},
		LLM: LLMConfig{
			APIKey:      k.String("openai.api.key"),
			BaseURL:     k.String("openai.base.url"),
			Model:       k.String("llm.model"),
			MaxTokens:   k.Int("llm.max.tokens"),
			Temperature: 0.8,
		},
		Search: SearchConfig{
			APIKey:  k.String("brave.api.key"),
			BaseURL: k.String("search.base.url"),
		},
		Chat: ChatConfig{
			HistoryLimit: k.Int("chat.history.limit"),
			DefaultName:  k.String("chat.default.name"),
			Timezone:     k.String("chat.timezone"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "sqlite"
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "memory.db"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.Key == "" {
		cfg.Redis.Key = "dost:turns"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 150
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://api.search.brave.com/res/v1/web/search"
	}
	if cfg.Chat.HistoryLimit == 0 {
		cfg.Chat.HistoryLimit = 10
	}
	if cfg.Chat.DefaultName == "" {
		cfg.Chat.DefaultName = "Arkadaşım"
	}
	if cfg.Chat.Timezone == "" {
		cfg.Chat.Timezone = "Europe/Istanbul"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	cfg.CORS.AllowedOrigins = splitList(k.String("cors.allowed.origins"))
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	if s := k.String("llm.temperature"); s != "" {
		t, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing llm temperature: %w", err)
		}
		cfg.LLM.Temperature = t
	}

	// Parse durations
	var err error
	if cfg.Search.Timeout, err = parseDuration(k.String("search.timeout"), "10s"); err != nil {
		return nil, fmt.Errorf("parsing search timeout: %w", err)
	}
	if cfg.LLM.Timeout, err = parseDuration(k.String("llm.timeout"), "30s"); err != nil {
		return nil, fmt.Errorf("parsing llm timeout: %w", err)
	}

	cfg.Server.WriteTimeout = cfg.ChatBudget() + 5*time.Second
	if cfg.Server.ShutdownTimeout, err = parseDuration(k.String("server.shutdown.timeout"), ""); err != nil {
		return nil, fmt.Errorf("parsing server shutdown timeout: %w", err)
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = cfg.Server.WriteTimeout
	}

	return cfg, nil
}

// ChatBudget is the longest a single chat turn can spend waiting on
// upstreams: the tool-selecting model call, a search, and the summary call.
func (c *Config) ChatBudget() time.Duration {
	return 2*c.LLM.Timeout + c.Search.Timeout
}

// parseDuration parses s, falling back to def when s is empty. An empty def
// yields zero.
func parseDuration(s, def string) (time.Duration, error) {
	if s == "" {
		s = def
	}
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// parsePort returns the first candidate that parses as an integer, or 8080.
func parsePort(candidates ...string) int {
	for _, c := range candidates {
		if p, err := strconv.Atoi(strings.TrimSpace(c)); err == nil && p > 0 {
			return p
		}
	}
	return 8080
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
