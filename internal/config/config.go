package config

import (
	"os"
	"time"
)

type Config struct {
	// Database (audit-log sink; optional)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Portal session tokens
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Session backend: "memory" or "managed"
	StoreBackend     string
	IdentityAPIKey   string
	IdentityEndpoint string
	FirestoreProject string

	// Prediction model service
	PredictionBaseURL string
	PredictionTimeout time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "portal_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),

		StoreBackend:     getEnv("STORE_BACKEND", "memory"),
		IdentityAPIKey:   getEnv("IDENTITY_API_KEY", ""),
		IdentityEndpoint: getEnv("IDENTITY_ENDPOINT", ""),
		FirestoreProject: getEnv("FIRESTORE_PROJECT", ""),

		PredictionBaseURL: getEnv("PREDICTION_BASE_URL", "http://127.0.0.1:5000"),
		PredictionTimeout: parseDuration(getEnv("PREDICTION_TIMEOUT", "30s")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// AuditLogEnabled reports whether the Postgres log sink is configured.
func (c *Config) AuditLogEnabled() bool {
	return c.DBPassword != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
