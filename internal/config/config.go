package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret  string
	SessionTTL time.Duration

	UploadRoot string

	RedisURL string

	MeiliHost      string
	MeiliMasterKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	// Lab mailing list that receives new-activity notifications.
	NotifyEmail string
}

// Load reads the process configuration from the environment once at startup.
// A missing .env file is fine in production where variables come preset.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASS"),
		DBName:     getEnv("DB_NAME", "labsite"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", "change-me"),
		SessionTTL: getDurationEnv("SESSION_TTL", 24*time.Hour),

		UploadRoot: getEnv("UPLOAD_ROOT", "./uploads"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliHost:      os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey: os.Getenv("MEILI_MASTER_KEY"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getIntEnv("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@localhost"),
		NotifyEmail:  os.Getenv("NOTIFY_EMAIL"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
