package config

import "os"

type Config struct {
	Port      string
	Env       string
	MongoURI  string
	MongoDB   string
	EventBus  string // "memory" or "redis"
	RedisAddr string
	LogLevel  string
	LogPretty bool
}

func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "skillshare"),
		EventBus:  getEnv("EVENT_BUS", "memory"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnv("LOG_PRETTY", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
