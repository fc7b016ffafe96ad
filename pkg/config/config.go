package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort int
	HTTPPort int

	CatalogURL     string
	CatalogTimeout time.Duration

	// CartID names the cart this process owns; it keys the persisted snapshot.
	CartID        string
	CartStore     string
	CartKeyPrefix string

	Redis    Redis
	Postgres Postgres

	AMQPURL        string
	NotifyExchange string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Postgres struct {
	Host string
	Port int
	User string
	Pass string
	DB   string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		GRPCPort: getEnvInt("GRPC_PORT", 8081),

		CatalogURL:     getEnv("CATALOG_API_URL", "http://localhost:3333"),
		CatalogTimeout: getEnvDuration("CATALOG_API_TIMEOUT", 5*time.Second),

		CartID:        os.Getenv("CART_ID"),
		CartStore:     getEnv("CART_STORE", "memory"),
		CartKeyPrefix: getEnv("CART_KEY_PREFIX", "@RocketShoes:cart"),

		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: Postgres{
			Host: getEnv("POSTGRES_HOST", "localhost"),
			Port: getEnvInt("POSTGRES_PORT", 5432),
			User: getEnv("POSTGRES_USER", "shopping"),
			Pass: getEnv("POSTGRES_PASSWORD", "shoppingpassword"),
			DB:   getEnv("POSTGRES_DB", "shopping_db"),
		},

		AMQPURL:        os.Getenv("AMQP_URL"),
		NotifyExchange: getEnv("NOTIFY_EXCHANGE", "cart_notices"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
