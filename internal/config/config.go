package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

var validate = validator.New()

type AppConfig struct {
	// An empty key is allowed at startup; searches then fail with a local error.
	WeatherAPIKey     string
	WeatherAPIBaseURL string `validate:"required,url"`

	// HTTPTimeout bounds a single provider call.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Consecutive transport/5xx failures before the breaker opens (0 = disabled).
	BreakerThreshold int           `validate:"gte=0"`
	BreakerCooldown  time.Duration `validate:"gte=0"`

	Port string `validate:"required,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.WeatherAPIBaseURL = getenvDefault("WEATHERAPI_BASE_URL", defaultBaseURL)

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.BreakerThreshold = getenvInt("BREAKER_THRESHOLD", 0)

	cooldown, err := getenvDuration("BREAKER_COOLDOWN", "30s")
	if err != nil {
		return nil, err
	}
	cfg.BreakerCooldown = cooldown

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
