package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Search    SearchConfig
	Fetch     FetchConfig
	LLM       LLMConfig
	Upload    UploadConfig
	Auth      AuthConfig
	Mongo     MongoConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// ShutdownTimeout is how long in-flight requests get on SIGTERM.
	ShutdownTimeout time.Duration // default: 10s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// SearchConfig controls URL resolution for GET /search.
type SearchConfig struct {
	// Provider selects the search backend: "duckduckgo", "searxng" or "serpapi".
	Provider string // default: "duckduckgo"

	DuckDuckGoURL string // default: "https://html.duckduckgo.com/html/"
	SearXNGURL    string // default: "http://localhost:8888"
	SearXNGAPIKey string
	SerpAPIURL    string // default: "https://serpapi.com/search"
	SerpAPIKey    string

	// UserAgent is sent to the search backend.
	UserAgent string // default: "Mozilla/5.0"

	// Timeout bounds one call to the search backend.
	Timeout time.Duration // default: 15s

	// QueryPrefix is prepended to every user query before resolving.
	QueryPrefix string // default: "learn "

	// DefaultResults is used when num_results is absent.
	DefaultResults int // default: 10

	// MaxResults is the largest accepted num_results.
	MaxResults int // default: 50
}

// FetchConfig controls the per-URL page fetcher and the worker pool.
type FetchConfig struct {
	// Timeout is the deadline for a single page fetch.
	Timeout time.Duration // default: 5s

	// UserAgent is the fixed client identity sent with every page request.
	UserAgent string // default: "Mozilla/5.0"

	// PoolWidth is the maximum number of pages fetched concurrently per search.
	PoolWidth int // default: 10

	// MaxBodyBytes caps how much of each page is read.
	MaxBodyBytes int64 // default: 10 MiB

	// ChromeTLS dials HTTPS with a Chrome TLS fingerprint.
	ChromeTLS bool // default: true
}

// LLMConfig controls the text generation backend.
type LLMConfig struct {
	// Provider is "gemini" or "openai" (any OpenAI-compatible API).
	Provider string // default: "gemini"

	APIKey  string
	Model   string // default per provider: "gemini-2.0-flash" or "gpt-4o-mini"
	BaseURL string // optional override; default for openai: "https://api.openai.com/v1"

	// Timeout bounds one generation call.
	Timeout time.Duration // default: 60s
}

// UploadConfig controls POST /extract-text.
type UploadConfig struct {
	// MaxBytes is the largest accepted upload.
	MaxBytes int64 // default: 32 MiB
}

// AuthConfig controls accounts and bearer-token authentication.
type AuthConfig struct {
	// JWTSecret signs login tokens. Account endpoints are disabled when empty.
	JWTSecret string

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration // default: 1h

	// Required protects the content endpoints with bearer-token auth.
	Required bool // default: false
}

// MongoConfig controls the account store.
type MongoConfig struct {
	// URI is the MongoDB connection string. An in-memory store is used when empty.
	URI        string
	Database   string // default: "studyhub"
	Collection string // default: "users"
}

// RateLimitConfig controls per-client inbound rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client. Zero disables limiting.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client.
	Burst int // default: 10
}

// CORSConfig controls cross-origin access for the web frontend.
type CORSConfig struct {
	AllowedOrigins []string // default: ["http://localhost:5173"]
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is loaded first if present; real
// environment variables take precedence over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("config: failed to load .env", "error", err)
	}

	return &Config{
		Server: ServerConfig{
			Host:            envOr("STUDYHUB_HOST", "0.0.0.0"),
			Port:            envIntOr("STUDYHUB_PORT", 8080),
			Mode:            envOr("STUDYHUB_MODE", "release"),
			ShutdownTimeout: envDurationOr("STUDYHUB_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("STUDYHUB_LOG_LEVEL", "info"),
			Format: envOr("STUDYHUB_LOG_FORMAT", "json"),
		},
		Search: SearchConfig{
			Provider:       envOr("STUDYHUB_SEARCH_PROVIDER", "duckduckgo"),
			DuckDuckGoURL:  envOr("STUDYHUB_DDG_URL", "https://html.duckduckgo.com/html/"),
			SearXNGURL:     envOr("STUDYHUB_SEARXNG_URL", "http://localhost:8888"),
			SearXNGAPIKey:  os.Getenv("STUDYHUB_SEARXNG_API_KEY"),
			SerpAPIURL:     envOr("STUDYHUB_SERPAPI_URL", "https://serpapi.com/search"),
			SerpAPIKey:     os.Getenv("SERPAPI_API_KEY"),
			UserAgent:      envOr("STUDYHUB_SEARCH_USER_AGENT", "Mozilla/5.0"),
			Timeout:        envDurationOr("STUDYHUB_SEARCH_TIMEOUT", 15*time.Second),
			QueryPrefix:    envRawOr("STUDYHUB_QUERY_PREFIX", "learn "),
			DefaultResults: envIntOr("STUDYHUB_DEFAULT_RESULTS", 10),
			MaxResults:     envIntOr("STUDYHUB_MAX_RESULTS", 50),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("STUDYHUB_FETCH_TIMEOUT", 5*time.Second),
			UserAgent:    envOr("STUDYHUB_FETCH_USER_AGENT", "Mozilla/5.0"),
			PoolWidth:    envIntOr("STUDYHUB_POOL_WIDTH", 10),
			MaxBodyBytes: int64(envIntOr("STUDYHUB_FETCH_MAX_BODY", 10<<20)),
			ChromeTLS:    envBoolOr("STUDYHUB_CHROME_TLS", true),
		},
		LLM: LLMConfig{
			Provider: envOr("STUDYHUB_LLM_PROVIDER", "gemini"),
			APIKey:   envOr("STUDYHUB_LLM_API_KEY", os.Getenv("GEMINI_API_KEY")),
			Model:    os.Getenv("STUDYHUB_LLM_MODEL"),
			BaseURL:  os.Getenv("STUDYHUB_LLM_BASE_URL"),
			Timeout:  envDurationOr("STUDYHUB_LLM_TIMEOUT", 60*time.Second),
		},
		Upload: UploadConfig{
			MaxBytes: int64(envIntOr("STUDYHUB_UPLOAD_MAX_BYTES", 32<<20)),
		},
		Auth: AuthConfig{
			JWTSecret: envOr("STUDYHUB_JWT_SECRET", os.Getenv("JWT_SECRET")),
			TokenTTL:  envDurationOr("STUDYHUB_TOKEN_TTL", time.Hour),
			Required:  envBoolOr("STUDYHUB_AUTH_REQUIRED", false),
		},
		Mongo: MongoConfig{
			URI:        envOr("STUDYHUB_MONGO_URI", os.Getenv("MONGO_URI")),
			Database:   envOr("STUDYHUB_MONGO_DB", "studyhub"),
			Collection: envOr("STUDYHUB_MONGO_COLLECTION", "users"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("STUDYHUB_RATE_RPS", 5.0),
			Burst:             envIntOr("STUDYHUB_RATE_BURST", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: envSliceOr("STUDYHUB_CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envRawOr is like envOr but keeps surrounding whitespace and allows an
// explicitly empty value.
func envRawOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
