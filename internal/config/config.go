package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds server settings, loaded from the environment.
type Config struct {
	Port        string
	DBPath      string
	BudgetLimit float64
	AlertDedupe bool
}

// Load reads configuration from the environment, with a .env file honored
// if present. Every setting has a working default.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "campushub.db"),
		BudgetLimit: getEnvFloat("BUDGET_LIMIT", 3000),
		AlertDedupe: getEnvBool("ALERT_DEDUPE", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
