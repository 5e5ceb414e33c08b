package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the blast service reads from the environment.
// Optional backends (Postgres history, RabbitMQ fan-out, Redis sent cache)
// are enabled by setting their URL and stay off otherwise.
type Config struct {
	HTTPAddr       string
	AllowedOrigins []string
	Identity       string
	PlatformURL    string
	HistoryDir     string
	DailyLimit     int

	DatabaseURL string
	AMQPURL     string
	RedisAddr   string
	RedisTTL    time.Duration
}

// FromEnv loads a .env file when present and builds the Config.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		AllowedOrigins: splitCSV(getenv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:13000")),
		Identity:       getenv("CLIENT_ID", "finance"),
		PlatformURL:    getenv("PLATFORM_URL", "http://localhost:9090"),
		HistoryDir:     getenv("HISTORY_DIR", "history"),
		DailyLimit:     getenvInt("DAILY_LIMIT", 100),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisTTL:       time.Duration(getenvInt("REDIS_TTL_SECONDS", 86400)) * time.Second,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
