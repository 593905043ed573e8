package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Codec selection for identity tokens. The plain codec exists for local
// debugging and test fixtures only.
const (
	CodecSigned = "signed"
	CodecPlain  = "plain"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	DatabaseFile string // Path to SQLite database file (default: ./strata.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	TokenCodec  string        // Identity token codec (signed, plain) (default: signed)
	TokenSecret string        // HMAC secret for the signed codec (required in prod)
	TokenTTL    time.Duration // Identity token lifetime (default: 1h)

	ConfirmTokenTTL time.Duration // Email-confirmation token lifetime (default: 48h)
	ResetTokenTTL   time.Duration // Password-reset token lifetime (default: 1h)

	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		DatabaseFile: getEnvOrDefault("STRATA_DATABASE_FILE", "strata.db"),
		PepperFile:   getEnvOrDefault("STRATA_PEPPER_FILE", "pepper"),

		TokenCodec:  getEnvOrDefault("STRATA_TOKEN_CODEC", CodecSigned),
		TokenSecret: os.Getenv("STRATA_TOKEN_SECRET"),
		TokenTTL:    getEnvDurationOrDefault("STRATA_TOKEN_TTL", time.Hour),

		ConfirmTokenTTL: getEnvDurationOrDefault("STRATA_CONFIRM_TOKEN_TTL", 48*time.Hour),
		ResetTokenTTL:   getEnvDurationOrDefault("STRATA_RESET_TOKEN_TTL", time.Hour),

		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

// Validate rejects configurations that would weaken the deployment. The
// plain codec and a missing signing secret are fine for dev but never for
// prod.
func (c Config) Validate() error {
	switch c.TokenCodec {
	case CodecSigned, CodecPlain:
	default:
		return fmt.Errorf("unknown token codec %q", c.TokenCodec)
	}

	if c.Env == "prod" {
		if c.TokenCodec == CodecPlain {
			return fmt.Errorf("token codec %q is not allowed in prod", c.TokenCodec)
		}
		if c.TokenSecret == "" {
			return fmt.Errorf("STRATA_TOKEN_SECRET is required in prod")
		}
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
