package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		// Driver selects the database/sql driver behind GORM: "pgx" or "postgres" (lib/pq)
		Driver string
	}

	Server struct {
		Port            string
		GinMode         string
		Environment     string
		ShutdownTimeout time.Duration
	}

	Storage struct {
		Type string
	}

	Auth struct {
		JWTSecret string
		Issuer    string
		Audience  string
	}

	ObjectStore struct {
		Endpoint      string
		AccessKey     string
		SecretKey     string
		Bucket        string
		UseSSL        bool
		PublicBaseURL string
	}

	App struct {
		PublicURL string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Log struct {
		Level string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "campus")
	config.DB.Password = getEnv("DB_PASSWORD", "campus_password")
	config.DB.Name = getEnv("DB_NAME", "campus_events")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	config.DB.Driver = getEnv("DB_DRIVER", "pgx")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.Environment = getEnv("APP_ENV", "development")
	config.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	config.Storage.Type = getEnv("STORAGE_TYPE", "postgres")

	config.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", "")
	config.Auth.Issuer = getEnv("AUTH_ISSUER", "")
	config.Auth.Audience = getEnv("AUTH_AUDIENCE", "authenticated")

	config.ObjectStore.Endpoint = getEnv("MINIO_ENDPOINT", "")
	config.ObjectStore.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.ObjectStore.SecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.ObjectStore.Bucket = getEnv("MINIO_BUCKET", "event-banners")
	config.ObjectStore.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)
	config.ObjectStore.PublicBaseURL = getEnv("MINIO_PUBLIC_BASE_URL", "")

	config.App.PublicURL = strings.TrimRight(getEnv("APP_PUBLIC_URL", "http://localhost:3000"), "/")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.Log.Level = getEnv("LOG_LEVEL", "info")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ObjectStoreEnabled reports whether banner uploads have a backing bucket
func (c *Config) ObjectStoreEnabled() bool {
	return c.ObjectStore.Endpoint != ""
}

// SplitList splits a comma separated config value, dropping blanks
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
