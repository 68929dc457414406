package config

import (
	"os"
	"strconv"
	"time"

	"hallbook/internal/cache"
	"hallbook/internal/database"
	"hallbook/internal/gateway"
	"hallbook/internal/mailer"
	"hallbook/internal/messaging"
)

// Config holds the full application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database database.Config
	NATS     messaging.Config
	Gateway  gateway.Config
	Mailer   mailer.Config
	Cache    cache.Config
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "hallbook"),
			Password:           getEnv("DB_PASSWORD", "hallbook123"),
			DBName:             getEnv("DB_NAME", "hallbook"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "hallbook"),
			ClientID:  getEnv("NATS_CLIENT_ID", "hallbook-api"),
		},

		Gateway: gateway.Config{
			Mode:      getEnv("PAYMENT_MODE", gateway.ModeSimulated),
			BaseURL:   getEnv("PAYMENT_GATEWAY_URL", "https://api.payments.example.com"),
			KeyID:     getEnv("PAYMENT_KEY_ID", ""),
			KeySecret: getEnv("PAYMENT_KEY_SECRET", ""),
			Timeout:   time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
		},

		Mailer: mailer.Config{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			From:     os.Getenv("SMTP_FROM"),
			Password: os.Getenv("SMTP_PASSWORD"),
			FromName: getEnv("SMTP_FROM_NAME", "HallBook"),
		},

		Cache: cache.Config{
			Addr:         getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:     os.Getenv("VALKEY_PASSWORD"),
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:auth"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
