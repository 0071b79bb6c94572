package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port           int      `json:"port"`
	Environment    string   `json:"environment"`
	AllowedOrigins []string `json:"allowed_origins"`

	// People backend configuration
	APIBaseURL    string        `json:"api_base_url"`
	APIVersion    string        `json:"api_version"`
	APITimeout    time.Duration `json:"api_timeout"`
	APIMaxRetries int           `json:"api_max_retries"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Session configuration
	SessionStore  string        `json:"session_store"`
	SessionTTL    time.Duration `json:"session_ttl"`
	SessionSecret string        `json:"-"`
	SessionCookie string        `json:"session_cookie"`

	// Reference data cache
	ReferenceCacheTTL time.Duration `json:"reference_cache_ttl"`

	// Form and interaction settings
	FormMinAge        int           `json:"form_min_age"`
	DebounceSearch    time.Duration `json:"debounce_search"`
	DebounceReference time.Duration `json:"debounce_reference"`
	DebounceGender    time.Duration `json:"debounce_gender"`

	// Tracing configuration
	TracingEnabled     bool    `json:"tracing_enabled"`
	TracingEndpoint    string  `json:"tracing_endpoint"`
	TracingSampleRatio float64 `json:"tracing_sample_ratio"`
}

// Session store kinds
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables into AppConfig
func LoadConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	apiTimeout, err := time.ParseDuration(getEnvOrDefault("API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnvOrDefault("SESSION_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	referenceCacheTTL, err := time.ParseDuration(getEnvOrDefault("REFERENCE_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_CACHE_TTL: %w", err)
	}

	minAge, err := strconv.Atoi(getEnvOrDefault("FORM_MIN_AGE", "0"))
	if err != nil || minAge < 0 {
		return nil, fmt.Errorf("invalid FORM_MIN_AGE: %q", os.Getenv("FORM_MIN_AGE"))
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	sampleRatio, err := strconv.ParseFloat(getEnvOrDefault("TRACING_SAMPLE_RATIO", "1"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("invalid TRACING_SAMPLE_RATIO: %q (use a value between 0 and 1)", os.Getenv("TRACING_SAMPLE_RATIO"))
	}

	environment := getEnvOrDefault("ENVIRONMENT", "development")

	sessionStore := strings.ToLower(getEnvOrDefault("SESSION_STORE", SessionStoreRedis))
	if sessionStore != SessionStoreRedis && sessionStore != SessionStoreMemory {
		return nil, fmt.Errorf("invalid SESSION_STORE: %q (use %q or %q)", sessionStore, SessionStoreRedis, SessionStoreMemory)
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		if environment == "production" {
			return nil, fmt.Errorf("SESSION_SECRET environment variable is required in production")
		}
		sessionSecret = "development-only-session-secret"
	}

	return &Config{
		// Server configuration
		Port:           port,
		Environment:    environment,
		AllowedOrigins: parseCommaSeparatedList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173")),

		// People backend configuration
		APIBaseURL:    strings.TrimRight(getEnvOrDefault("API_BASE_URL", "http://localhost:4001"), "/"),
		APIVersion:    getEnvOrDefault("API_VERSION", "v1"),
		APITimeout:    apiTimeout,
		APIMaxRetries: getEnvAsIntOrDefault("API_MAX_RETRIES", 2),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Session configuration
		SessionStore:  sessionStore,
		SessionTTL:    sessionTTL,
		SessionSecret: sessionSecret,
		SessionCookie: getEnvOrDefault("SESSION_COOKIE", "pessoas_session"),

		ReferenceCacheTTL: referenceCacheTTL,

		// Form and interaction settings
		FormMinAge:        minAge,
		DebounceSearch:    getEnvAsDurationOrDefault("DEBOUNCE_SEARCH", 500*time.Millisecond),
		DebounceReference: getEnvAsDurationOrDefault("DEBOUNCE_REFERENCE", 300*time.Millisecond),
		DebounceGender:    getEnvAsDurationOrDefault("DEBOUNCE_GENDER", 100*time.Millisecond),

		// Tracing configuration
		TracingEnabled:     tracingEnabled,
		TracingEndpoint:    getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
		TracingSampleRatio: sampleRatio,
	}, nil
}

// BackendURL returns the versioned base URL of the people backend
func (c *Config) BackendURL() string {
	return c.APIBaseURL + "/" + c.APIVersion
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the integer value of key, or defaultValue if unset or invalid
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvAsDurationOrDefault returns the duration value of key, or defaultValue if unset or invalid
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseCommaSeparatedList splits a comma separated value, dropping empty items
func parseCommaSeparatedList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
