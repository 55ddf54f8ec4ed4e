package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures service-level configuration. Values come from MEDTRUST_*
// environment variables with development defaults so main stays lean.
type Config struct {
	Addr string

	// DatabaseURL selects the PostgreSQL-backed stores when set; otherwise
	// the in-memory stores are used (dev/test mode).
	DatabaseURL string

	// RedisURL selects the Redis-backed trust store when set and DatabaseURL
	// is empty. Deployments already running Redis for sessions use this.
	RedisURL string

	// TrustedCIDR is the hospital subnet treated as the trusted network.
	TrustedCIDR string

	// TrustDefault is the score assigned to identities on first contact.
	TrustDefault float64

	// TrustThreshold gates out-of-network restricted access.
	TrustThreshold float64

	AnalyzerURL     string
	AnalyzerTimeout time.Duration

	// JWTSigningKey verifies admin tokens for the audit query endpoint.
	JWTSigningKey string

	// FieldKeyHex is the 32-byte hex key for the patient field cipher.
	FieldKeyHex string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:            envOr("MEDTRUST_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("MEDTRUST_DATABASE_URL"),
		RedisURL:        os.Getenv("MEDTRUST_REDIS_URL"),
		TrustedCIDR:     envOr("MEDTRUST_TRUSTED_CIDR", "192.168.1.0/24"),
		TrustDefault:    envFloat("MEDTRUST_TRUST_DEFAULT", 50),
		TrustThreshold:  envFloat("MEDTRUST_TRUST_THRESHOLD", 40),
		AnalyzerURL:     envOr("MEDTRUST_ANALYZER_URL", "http://localhost:9090"),
		AnalyzerTimeout: envDuration("MEDTRUST_ANALYZER_TIMEOUT", 3*time.Second),
		// Default for development - must be overridden in production.
		JWTSigningKey: envOr("MEDTRUST_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		FieldKeyHex:   os.Getenv("MEDTRUST_FIELD_KEY"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
