package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Security     SecurityConfig
	Session      SessionConfig
	Registration RegistrationConfig
	Storage      StorageConfig
	Mail         MailConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// SessionConfig holds the browser session cookie settings
type SessionConfig struct {
	CookieName   string
	CookieSecure bool
	TTL          time.Duration
}

// RegistrationConfig holds onboarding wizard settings
type RegistrationConfig struct {
	CursorTTL     time.Duration
	StepLockTTL   time.Duration
	MaxUploadSize int64
}

// StorageConfig selects and configures the blob store
type StorageConfig struct {
	Driver          string // local | gcs
	LocalDir        string
	GCSBucket       string
	GCSCredentials  string
	GCSProjectID    string
	UploadRetries   uint64
	UploadRetryWait time.Duration
}

// MailConfig configures outbound notifications
type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// Enabled reports whether SendGrid delivery is configured
func (c MailConfig) Enabled() bool {
	return c.SendGridAPIKey != ""
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "agrimarket"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "agrimarket_session"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			TTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Registration: RegistrationConfig{
			CursorTTL:     getEnvAsDuration("REGISTRATION_CURSOR_TTL", 24*time.Hour),
			StepLockTTL:   getEnvAsDuration("REGISTRATION_STEP_LOCK_TTL", 30*time.Second),
			MaxUploadSize: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)),
		},
		Storage: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "local"),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			GCSBucket:       getEnv("GCS_BUCKET", ""),
			GCSCredentials:  getEnv("GCS_CREDENTIALS_FILE", ""),
			GCSProjectID:    getEnv("GCS_PROJECT_ID", ""),
			UploadRetries:   uint64(getEnvAsInt("STORAGE_UPLOAD_RETRIES", 3)),
			UploadRetryWait: getEnvAsDuration("STORAGE_UPLOAD_RETRY_WAIT", 200*time.Millisecond),
		},
		Mail: MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("MAIL_FROM_EMAIL", "no-reply@agrimarket.local"),
			FromName:       getEnv("MAIL_FROM_NAME", "AgriMarket"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
