package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string

	AllowedOrigins []string

	// DenylistTerms feed the moderation policy; StrikeThreshold is the
	// same-day strike count that triggers an automatic mute.
	DenylistTerms   []string
	StrikeThreshold int
}

func Load() *Config {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "clubchat"),
		DBPassword:      getEnv("DB_PASSWORD", "clubchat_dev_password"),
		DBName:          getEnv("DB_NAME", "clubchat"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		DenylistTerms:   splitList(getEnv("MODERATION_DENYLIST", "vl")),
		StrikeThreshold: getEnvInt("STRIKE_THRESHOLD", 3),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
