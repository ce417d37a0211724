package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	RpcURL          string
	DbURL           string
	KafkaBroker     string
	KafkaTopic      string
	ChainID         int64
	SignerKey       string
	APIPort         int
	RefreshInterval int // seconds between poller passes
}

// NewConfig loads configuration from environment variables
func NewConfig() *Config {
	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	return &Config{
		RpcURL:          getEnvOrFatal("RPC_URL"),
		DbURL:           getEnvOrFatal("DB_URL"),
		KafkaBroker:     getEnvOrFatal("KAFKA_BROKER"),
		KafkaTopic:      getEnvOrFatal("KAFKA_TOPIC"),
		ChainID:         getEnvInt64("CHAIN_ID", 1),
		SignerKey:       getEnvOrFatal("SIGNER_KEY"),
		APIPort:         getEnvInt("API_PORT", 8080),
		RefreshInterval: getEnvInt("REFRESH_INTERVAL_SECONDS", 30),
	}
}

func getEnvOrFatal(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	log.Fatalf("environment variable %s not set", key)

	return ""
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
