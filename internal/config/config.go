// internal/config/config.go
package config

import (
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWTSecret   string
	RedisAddr   string
	AMQPURL     string
	TimeZone    string
}

func Load() *Config {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		host := getEnv("PSQL_HOST", "localhost")
		port := getEnv("PSQL_PORT", "5432")
		user := getEnv("PSQL_USER", "postgres")
		password := getEnv("PSQL_PASSWORD", "postgres")
		dbName := getEnv("PSQL_DB_NAME", "fleetboard")

		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(user, password),
			Host:   host + ":" + port,
			Path:   dbName,
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		databaseURL = u.String()
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: databaseURL,
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		AMQPURL:     os.Getenv("AMQP_URL"),
		TimeZone:    getEnv("TIME_ZONE", "Asia/Kolkata"),
	}
}

// Location resolves the civil calendar every day-boundary computation uses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("invalid TIME_ZONE %q, falling back to local: %v", c.TimeZone, err)
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
