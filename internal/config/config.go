// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreSQLite = "sqlite"
)

// Intent classification strategies.
const (
	NLUPattern = "pattern"
	NLUGemini  = "gemini"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL string
	AuthToken  string
	Username   string
	Password   string

	TokenStore string
	TokenFile  string
	DBPath     string

	NLUMode      string
	GeminiAPIKey string
	GeminiAPIURL string

	ListenAddr  string
	HTTPTimeout time.Duration
}

// HasStaticToken reports whether the deployment uses a fixed long-lived
// bearer token instead of the sign-in-and-refresh flow. When both a static
// token and username/password are configured, the static token wins.
func (c *Config) HasStaticToken() bool {
	return c.AuthToken != ""
}

// Load reads configuration from environment variables and returns a
// validated Config. Either ASKARI_AUTH_TOKEN or the ASKARI_USERNAME /
// ASKARI_PASSWORD pair is required. Optional variables with defaults:
// ASKARI_API_URL, ASKARI_TOKEN_STORE (file), ASKARI_TOKEN_FILE
// (askari-token.json), ASKARI_DB_PATH (askari-relay.db), ASKARI_NLU
// (pattern), ASKARI_LISTEN_ADDR (127.0.0.1:3000), ASKARI_HTTP_TIMEOUT (10s).
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:   getEnv("ASKARI_API_URL", "https://guardtour.legitsystemsug.com"),
		AuthToken:    os.Getenv("ASKARI_AUTH_TOKEN"),
		Username:     os.Getenv("ASKARI_USERNAME"),
		Password:     os.Getenv("ASKARI_PASSWORD"),
		TokenStore:   getEnv("ASKARI_TOKEN_STORE", TokenStoreFile),
		TokenFile:    getEnv("ASKARI_TOKEN_FILE", "askari-token.json"),
		DBPath:       getEnv("ASKARI_DB_PATH", "askari-relay.db"),
		NLUMode:      getEnv("ASKARI_NLU", NLUPattern),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiAPIURL: os.Getenv("GEMINI_API_URL"),
		ListenAddr:   getEnv("ASKARI_LISTEN_ADDR", "127.0.0.1:3000"),
		HTTPTimeout:  10 * time.Second,
	}

	if v, ok := os.LookupEnv("ASKARI_HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ASKARI_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		cfg.HTTPTimeout = parsed
	}

	if cfg.AuthToken == "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, errors.New("missing credentials: set ASKARI_AUTH_TOKEN or both ASKARI_USERNAME and ASKARI_PASSWORD")
	}

	if cfg.TokenStore != TokenStoreFile && cfg.TokenStore != TokenStoreSQLite {
		return nil, fmt.Errorf("ASKARI_TOKEN_STORE must be %q or %q, got %q", TokenStoreFile, TokenStoreSQLite, cfg.TokenStore)
	}

	switch cfg.NLUMode {
	case NLUPattern:
	case NLUGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("ASKARI_NLU=gemini requires GEMINI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("ASKARI_NLU must be %q or %q, got %q", NLUPattern, NLUGemini, cfg.NLUMode)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
