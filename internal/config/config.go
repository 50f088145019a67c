package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"

	DriverPgx = "pgx"
	DriverPq  = "pq"
)

// Config aggregates runtime configuration for the agent server.
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Federated FederatedConfig
	QR        QRConfig
	Reports   ReportsConfig
	CORS      CORSConfig
	Log       LogConfig
}

type AppConfig struct {
	Host string
	Port string
}

func (a AppConfig) Addr() string { return a.Host + ":" + a.Port }

// StoreConfig picks the document store: in-process memory or Postgres via gorm.
type StoreConfig struct {
	Backend string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

type AuthConfig struct {
	JWTSecret          string
	VerificationSecret string
	SessionTTL         time.Duration
	SessionIdle        time.Duration
	BcryptCost         int
	VerifyLinkBase     string
}

// FederatedConfig verifies Google style id tokens. Leave both Secret and
// PublicKeyPEM empty to disable federated sign-in.
type FederatedConfig struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
	Audience     string
}

type QRConfig struct {
	BaseURL string
	Size    int
}

type ReportsConfig struct {
	Location *time.Location
}

type CORSConfig struct {
	Origins []string
}

// LogConfig controls logrus and the lumberjack rotated file.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Stdout     bool
}

// Load reads .env when present, then the environment, applying defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("config: no .env file found, relying on env vars")
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "Africa/Nairobi"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "supersecret")
	cfg := &Config{
		App: AppConfig{
			Host: getEnv("APP_HOST", "0.0.0.0"),
			Port: getEnv("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverPgx)),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "naulify"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		Auth: AuthConfig{
			JWTSecret:          jwtSecret,
			VerificationSecret: getEnv("VERIFY_SECRET", jwtSecret),
			SessionTTL:         time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
			SessionIdle:        time.Duration(getEnvAsInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			VerifyLinkBase:     getEnv("VERIFY_LINK_BASE", "http://localhost:8080/auth/verify"),
		},
		Federated: FederatedConfig{
			Secret:       os.Getenv("FEDERATED_SECRET"),
			PublicKeyPEM: os.Getenv("FEDERATED_PUBLIC_KEY"),
			Issuer:       getEnv("FEDERATED_ISSUER", "https://accounts.google.com"),
			Audience:     os.Getenv("FEDERATED_AUDIENCE"),
		},
		QR: QRConfig{
			BaseURL: getEnv("QR_BASE_URL", "https://naulify.com/pay"),
			Size:    getEnvAsInt("QR_SIZE", 512),
		},
		Reports: ReportsConfig{Location: loc},
		CORS:    CORSConfig{Origins: splitList(getEnv("CORS_ORIGINS", "*"))},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", "./logs/app.log"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
			Stdout:     getEnvAsBool("LOG_STDOUT", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Database.Driver {
	case DriverPgx, DriverPq:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", c.Database.Driver)
	}
	if c.QR.Size <= 0 {
		return fmt.Errorf("invalid QR_SIZE %d", c.QR.Size)
	}
	return nil
}

// getEnv reads an environment variable or returns the provided default.
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
