package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Supabase
	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string
	ChatTable         string

	// Direct Postgres connection (optional, bypasses the REST API)
	DatabaseURL string

	// Redis (optional, backs the chat rate limiter)
	RedisURL string

	// LLM
	LLMProvider         string
	OpenAIKey           string
	OpenAIModel         string
	GeminiAPIKey        string
	GeminiModel         string
	LLMConcurrentReqs   int
	LLMTimeoutSeconds   int
	ChatRateLimitPerMin int

	// CORS
	AllowedOrigins []string
}

// Load reads the environment (and .env if present). Missing required
// variables panic so the process never starts half-configured.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		SupabaseURL:         mustGetEnv("SUPABASE_URL"),
		SupabaseKey:         mustGetEnv("SUPABASE_KEY"),
		SupabaseJWTSecret:   getEnvOrDefault("SUPABASE_JWT_SECRET", ""),
		ChatTable:           getEnvOrDefault("CHAT_TABLE", "chat_history"),
		DatabaseURL:         getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:            getEnvOrDefault("REDIS_URL", ""),
		LLMProvider:         strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIModel:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		LLMConcurrentReqs:   getEnvAsIntOrDefault("LLM_CONCURRENT_REQUESTS", 5),
		LLMTimeoutSeconds:   getEnvAsIntOrDefault("LLM_TIMEOUT_SECONDS", 60),
		ChatRateLimitPerMin: getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		AllowedOrigins:      getEnvAsListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI:
		cfg.OpenAIKey = mustGetEnv("OPENAI_KEY")
	case ProviderGemini:
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	default:
		panic(fmt.Sprintf("unsupported LLM_PROVIDER %q", cfg.LLMProvider))
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
