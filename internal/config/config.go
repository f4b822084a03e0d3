// Package config reads server settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DevJWTSecret is used outside production when JWT_SECRET is unset.
const DevJWTSecret = "dev_secret_change_me"

var ErrMissingSecret = errors.New("config: JWT_SECRET must be set in production")

type Config struct {
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	JWTExpiry            time.Duration
	CookieName           string
	ClientOrigin         string
	DailySalt            string
	VersesFile           string
	FederatedTokenSecret string
	RateLimitRPS         int
	RateLimitBurst       int
	Production           bool
	LogLevel             zerolog.Level
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "5175"),
		DatabaseURL:          getEnv("DATABASE_URL", "./data/thywordle.db"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTExpiry:            time.Duration(getEnvAsInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:           getEnv("COOKIE_NAME", "thywordle_token"),
		ClientOrigin:         getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:            getEnv("DAILY_SALT", "thywordle"),
		VersesFile:           os.Getenv("VERSES_FILE"),
		FederatedTokenSecret: os.Getenv("FEDERATED_TOKEN_SECRET"),
		RateLimitRPS:         getEnvAsInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       getEnvAsInt("RATE_LIMIT_BURST", 10),
		Production:           strings.EqualFold(getEnv("APP_ENV", "development"), "production"),
		LogLevel:             zerolog.InfoLevel,
	}
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		cfg.LogLevel = lvl
	}

	if cfg.JWTSecret == "" {
		if cfg.Production {
			return nil, ErrMissingSecret
		}
		log.Warn().Msg("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = DevJWTSecret
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
