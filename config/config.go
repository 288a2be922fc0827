package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config centralizes environment-driven settings for the service.
type Config struct {
	Host        string
	Port        string
	MetricsPort string

	// DBDriver selects the durable store backend: "postgres", "mysql"
	// or "memory" for a transient dev instance.
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	AutoMigrate  bool
	SeedDefaults bool
	LogLevel     string
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Host:        getEnv("HOST", "127.0.0.1"),
		Port:        getEnv("PORT", "3000"),
		MetricsPort: getEnv("METRICS_PORT", "9100"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "matka"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "matka"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", true),
		SeedDefaults: getEnvBool("SEED_DEFAULTS", true),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
