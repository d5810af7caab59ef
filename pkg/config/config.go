// Package config collects the environment the agent runs with. Values are
// read once at startup; zero values fall back through WithDefaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable the agent consumes.
type Config struct {
	Port     string
	LogLevel string

	// LLM (DeepSeek speaks the OpenAI wire protocol).
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string
	MaxTokens       int
	Temperature     float64

	// Social platform credentials. All empty means mock mode.
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string
	TwitterBearerToken       string

	// Market data endpoints.
	HyperliquidAPIURL string
	FoxContract       string
	CoinGeckoMCPURL   string

	// Cron endpoint shared secret; empty disables the check.
	CronSecret string

	// Storage. Empty DBPath selects the in-memory store.
	DBPath string

	// Persona table override; empty uses the embedded default.
	PersonaPath string

	// Delay between consecutive auto-replies.
	ReplyDelay time.Duration
}

// Load reads the environment into a Config and applies defaults.
func Load() Config {
	cfg := Config{
		Port:                     os.Getenv("PORT"),
		LogLevel:                 os.Getenv("LOG_LEVEL"),
		DeepSeekAPIKey:           os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL:          os.Getenv("DEEPSEEK_BASE_URL"),
		DeepSeekModel:            os.Getenv("DEEPSEEK_MODEL"),
		TwitterAPIKey:            os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:         os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:       os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessTokenSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
		TwitterBearerToken:       os.Getenv("TWITTER_BEARER_TOKEN"),
		HyperliquidAPIURL:        os.Getenv("HYPERLIQUID_API_URL"),
		FoxContract:              os.Getenv("ONCHAINHYPERFOXES_CONTRACT"),
		CoinGeckoMCPURL:          os.Getenv("COINGECKO_MCP_URL"),
		CronSecret:               os.Getenv("CRON_SECRET"),
		DBPath:                   os.Getenv("FOXY_DB_PATH"),
		PersonaPath:              os.Getenv("FOXY_PERSONA_PATH"),
	}
	if ms, err := strconv.Atoi(os.Getenv("FOXY_REPLY_DELAY_MS")); err == nil && ms >= 0 {
		cfg.ReplyDelay = time.Duration(ms) * time.Millisecond
	} else {
		cfg.ReplyDelay = -1
	}
	return cfg.WithDefaults()
}

// WithDefaults fills unset fields with the built-in defaults.
func (c Config) WithDefaults() Config {
	if c.Port == "" {
		c.Port = "3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DeepSeekBaseURL == "" {
		c.DeepSeekBaseURL = "https://api.deepseek.com"
	}
	if c.DeepSeekModel == "" {
		c.DeepSeekModel = "deepseek-chat"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1000
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.7
	}
	if c.HyperliquidAPIURL == "" {
		c.HyperliquidAPIURL = "https://api.hyperliquid.xyz"
	}
	if c.FoxContract == "" {
		c.FoxContract = "0x1234567890abcdef"
	}
	if c.CoinGeckoMCPURL == "" {
		c.CoinGeckoMCPURL = "https://mcp.api.coingecko.com/sse"
	}
	if c.ReplyDelay < 0 {
		c.ReplyDelay = time.Second
	}
	return c
}

// TwitterConfigured reports whether real platform credentials are present.
func (c Config) TwitterConfigured() bool {
	return c.TwitterAPIKey != "" && c.TwitterAPISecret != "" &&
		c.TwitterAccessToken != "" && c.TwitterAccessTokenSecret != ""
}
