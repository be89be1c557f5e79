package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Config struct {
	Port            int
	DB              DBConfig
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	StaticRoot      string
	AllowedOrigins  []string
	AdminUsername   string
	AdminPassword   string
	MaxUploadSize   int64
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func loadDB() DBConfig {
	return DBConfig{
		Driver:   getEnv("DB_DRIVER", "postgres"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASS", ""),
		Name:     getEnv("DB_NAME", "apujo"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// Load builds the process configuration from the environment. It is called
// once at startup; every service that needs configuration receives this
// struct instead of reading the environment itself.
func Load() *Config {
	return &Config{
		Port:            getEnvAsInt("PORT", 8000),
		DB:              loadDB(),
		JWTSecret:       getEnv("SECRET_KEY", ""),
		AccessTokenTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		RefreshTokenTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 168*time.Hour),
		StaticRoot:      getEnv("BACKEND_STATIC_ROOT", "static"),
		AllowedOrigins:  splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:6565")),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
	}
}

// UploadsRoot is the directory that holds the per-category upload folders.
func (c *Config) UploadsRoot() string {
	return filepath.Join(c.StaticRoot, "uploads")
}

// DSN renders the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DB.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
