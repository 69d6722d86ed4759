package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from the environment with an
// optional .env file.
type Config struct {
	DBPath      string
	Port        string
	CORSOrigins []string

	OpenAIAPIKey string
	EbayAppID    string

	AuthEnabled   bool
	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	SnapshotHour int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		DBPath:        getEnv("DB_PATH", "./antique_tracker.db"),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		EbayAppID:     getEnv("EBAY_APP_ID", ""),
		AuthEnabled:   getEnvBool("AUTH_ENABLED", false),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		SnapshotHour:  getEnvInt("SNAPSHOT_HOUR", 23),
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
