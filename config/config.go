// Package config loads server configuration from the environment.
package config

import (
	"os"
	"time"
)

type Config struct {
	ServerPort    string
	DBPath        string
	AdminPassword string
	JWTSecret     string
	JWTExpiration time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:    getEnv("WEB_PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "insights.db"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-change-me"),
		JWTExpiration: 24 * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
