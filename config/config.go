package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Host           string
	Port           string
	AllowedOrigins []string

	AnthropicAPIKey string
	SerpAPIKey      string

	// AllowRendered controls whether the headless-browser fetch strategy is
	// attempted at all. Hosted platforms can't launch Chromium, so rendering
	// is switched off there and only the static fetcher runs.
	AllowRendered bool

	RateLimitRPS   float64
	RequestTimeout time.Duration
}

// hostedEnvSignals are environment variables whose presence indicates a
// constrained hosted platform where launching a browser is not possible.
var hostedEnvSignals = []string{
	"RENDER",
	"VERCEL",
	"AWS_LAMBDA_FUNCTION_NAME",
	"K_SERVICE",
	"FLY_APP_NAME",
	"DYNO",
	"RAILWAY_ENVIRONMENT",
}

// Load builds a Config from environment variables with sensible defaults.
func Load() *Config {
	origins := strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  origins,
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		SerpAPIKey:      getEnv("SERPAPI_KEY", ""),
		AllowRendered:   renderingAvailable(),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 5),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 90*time.Second),
	}
}

// renderingAvailable reports whether the rendered (headless browser) fetch
// strategy should be attempted in this environment.
func renderingAvailable() bool {
	if getEnvBool("PRICELENS_DISABLE_BROWSER", false) {
		return false
	}
	for _, name := range hostedEnvSignals {
		if os.Getenv(name) != "" {
			return false
		}
	}
	return true
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
