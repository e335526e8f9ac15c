package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	// Address the HTTP server listens on
	SERVER_ADDR     string
	ALLOWED_HEADERS string

	// Redis backs the category and listing caches. Caching is off when REDIS_ADDR is empty.
	REDIS_ADDR        string
	REDIS_PASSWORD    string
	REDIS_DB          int
	CACHE_TTL_SECONDS int

	// Base URL of the companion API used by the CLI and MCP clients
	COMPANION_ENDPOINT   string
	HTTP_TIMEOUT_SECONDS int

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		SERVER_ADDR:     getEnvOrDefault("SERVER_ADDR", "0.0.0.0:6060"),
		ALLOWED_HEADERS: getEnvOrDefault("ALLOWED_HEADERS", "Content-Type,Traceparent"),

		REDIS_ADDR:        os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD:    os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:          getIntEnvOrDefault("REDIS_DB", 0),
		CACHE_TTL_SECONDS: getIntEnvOrDefault("CACHE_TTL_SECONDS", 300),

		COMPANION_ENDPOINT:   getEnvOrDefault("COMPANION_ENDPOINT", "http://localhost:6060"),
		HTTP_TIMEOUT_SECONDS: getIntEnvOrDefault("HTTP_TIMEOUT_SECONDS", 30),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CACHE_TTL_SECONDS) * time.Second
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP_TIMEOUT_SECONDS) * time.Second
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
