package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration, read from the environment.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DatabaseDSN string

	JWTSecret     string
	JWTExpiration time.Duration

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailSender string

	StorageDir    string
	PublicBaseURL string

	ProfilePrefix string
	ProfileSize   int

	GoogleClientID     string
	GoogleClientSecret string

	SeedData bool
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   strings.ToLower(getEnv("APP_ENV", "development")),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseDSN: databaseDSN(),

		JWTSecret:     getEnv("JWT_SECRET", "cursomc-dev-secret-change-me"),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),

		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASS", ""),
		MailSender: getEnv("MAIL_SENDER", "no-reply@cursomc.local"),

		StorageDir:    getEnv("STORAGE_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		ProfilePrefix: getEnv("IMG_PREFIX_CLIENT_PROFILE", "cp"),
		ProfileSize:   getEnvInt("IMG_PROFILE_SIZE", 200),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		SeedData: getEnvBool("SEED_DATA", false),
	}
}

// IsDev reports whether the app runs in a development environment.
func (c *Config) IsDev() bool {
	return c.AppEnv == "" || c.AppEnv == "development" || c.AppEnv == "dev"
}

// databaseDSN prefers DB_DSN and otherwise assembles a libpq keyword string
// from the DB_* variables, falling back to the POSTGRES_* ones.
func databaseDSN() string {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", getEnv("POSTGRES_USER", "postgres"))
	pass := getEnv("DB_PASSWORD", getEnv("POSTGRES_PASSWORD", "postgres"))
	name := getEnv("DB_NAME", getEnv("POSTGRES_DB", "cursomc"))
	ssl := getEnv("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
