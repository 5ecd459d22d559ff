package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	// AccountsFile backs the JSON-file credential store. Ignored when
	// STORE_BACKEND=postgres.
	AccountsFile string
	// SessionFile backs the JSON-file session slot. Ignored when
	// SESSION_BACKEND=redis.
	SessionFile    string
	StoreBackend   string
	SessionBackend string
	JWTSecret      string
	TokenTTL       time.Duration
	SessionTTL     time.Duration
}

type AppConfig struct {
	Environment      string
	Version          string
	CORSOrigins      []string
	ReminderSchedule string
	ReminderWindow   time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "tasktrail"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AccountsFile:   getEnv("ACCOUNTS_FILE", "data/registered_users.json"),
			SessionFile:    getEnv("SESSION_FILE", "data/current_user.json"),
			StoreBackend:   getEnv("STORE_BACKEND", "jsonfile"),
			SessionBackend: getEnv("SESSION_BACKEND", "jsonfile"),
			JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
			TokenTTL:       getEnvAsDuration("TOKEN_TTL", 15*time.Minute),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		},
		App: AppConfig{
			Environment:      getEnv("APP_ENV", "development"),
			Version:          getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins:      []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
			ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 0 9 * * *"),
			ReminderWindow:   getEnvAsDuration("REMINDER_WINDOW", 48*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Auth.StoreBackend {
	case "jsonfile", "postgres":
	default:
		return fmt.Errorf("STORE_BACKEND must be jsonfile or postgres, got %q", c.Auth.StoreBackend)
	}

	switch c.Auth.SessionBackend {
	case "jsonfile", "redis":
	default:
		return fmt.Errorf("SESSION_BACKEND must be jsonfile or redis, got %q", c.Auth.SessionBackend)
	}

	if c.Auth.StoreBackend == "postgres" && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
