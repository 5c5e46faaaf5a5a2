package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the submission service settings
type Config struct {
	HTTPPort string

	// StoreDriver is "mongo" or "sqlite"
	StoreDriver string
	MongoURI    string
	MongoDB     string
	SQLitePath  string

	// RedisURI empty disables the recent-submissions cache
	RedisURI string

	// RabbitMQURI empty disables submission events
	RabbitMQURI      string
	RabbitMQExchange string

	JWTSecret   string
	RequireAuth bool

	RecentLimit    int
	StudiesPath    string
	VariantsPath   string
	AllowedOrigins []string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, using environment variables")
	}

	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "methodquiz"),
		SQLitePath:       getEnv("SQLITE_PATH", "file:methodquiz.db?_pragma=busy_timeout(5000)"),
		RedisURI:         getEnv("REDIS_URI", ""),
		RabbitMQURI:      getEnv("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "methodquiz.events"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
		RequireAuth:      envBool("REQUIRE_AUTH", false),
		RecentLimit:      envInt("RECENT_LIMIT", 50),
		StudiesPath:      getEnv("STUDIES_PATH", "data/studies.json"),
		VariantsPath:     getEnv("VARIANTS_PATH", ""),
		AllowedOrigins:   csvEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func csvEnv(key, def string) []string {
	parts := strings.Split(getEnv(key, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
