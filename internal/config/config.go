package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	RedisHost        string
	RedisPort        string
	SessionSecret    string
	GinMode          string
	OpenAIAPIKey     string
	ListenAddr       string
	AllowOpenPledges bool
}

func Load() *Config {
	// A missing .env file is fine, variables may come from the environment.
	_ = godotenv.Load()

	return &Config{
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "pleeboo"),
		DBPassword:       getEnv("DB_PASSWORD", "pleeboo"),
		DBName:           getEnv("DB_NAME", "pleeboo"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		SessionSecret:    getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		AllowOpenPledges: getEnv("ALLOW_OPEN_PLEDGES", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
