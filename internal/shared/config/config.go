package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	LocalStoreDir      string
	LLMProvider        string
	LLMModel           string
	OpenRouterAPIKeys  []string
	RemoteTimeoutSecs  int
	Ruleset            string
	SummarizerStrategy string
	AppURL             string
	TranslateBaseURL   string
	DatabaseURL        string
	Env                string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		LLMProvider:        normalizeProvider(getEnv("LLM_PROVIDER", "openrouter")),
		LLMModel:           getEnv("LLM_MODEL", "anthropic/claude-3.5-sonnet"),
		OpenRouterAPIKeys:  collectKeys("OPENROUTER_API_KEY1", "OPENROUTER_API_KEY2", "OPENROUTER_API_KEY3"),
		RemoteTimeoutSecs:  getEnvInt("REMOTE_TIMEOUT_SECONDS", 12),
		Ruleset:            normalizeRuleset(getEnv("RULESET", "standard")),
		SummarizerStrategy: normalizeSummarizer(getEnv("SUMMARIZER", "rank")),
		AppURL:             getEnv("APP_URL", "http://localhost:3000"),
		TranslateBaseURL:   getEnv("TRANSLATE_BASE_URL", "https://api.mymemory.translated.net"),
		DatabaseURL:        dbURL,
		Env:                env,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config env %s invalid int: %q", key, raw)
		return def
	}
	return val
}

func collectKeys(names ...string) []string {
	var out []string
	for _, name := range names {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			out = append(out, key)
		}
	}
	return out
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "local":
		return "none"
	default:
		return "openrouter"
	}
}

func normalizeRuleset(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "strict":
		return "strict"
	default:
		return "standard"
	}
}

func normalizeSummarizer(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "decision":
		return "decision"
	default:
		return "rank"
	}
}
