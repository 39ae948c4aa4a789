package configs

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverMySQL  = "mysql"
)

type ENV struct {
	Port             string
	AppEnv           string
	StorefrontAPIURL string
	APITimeout       time.Duration
	StorageDriver    string
	DBHost           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBPort           string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	AppAuthKey       string
	AppEncKey        string
	LogFile          string
}

// LoadEnv reads .env (when present) and the process environment. The result
// is passed explicitly to whatever needs it.
func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("LoadEnv: no .env file found, using process environment")
	}

	return ENV{
		Port:             getenv("APP_PORT", ":8080"),
		AppEnv:           getenv("APP_ENV", "development"),
		StorefrontAPIURL: getenv("STOREFRONT_API_URL", "http://localhost:5000/api"),
		APITimeout:       getDuration("API_TIMEOUT", 10*time.Second),
		StorageDriver:    getenv("STORAGE_DRIVER", StorageDriverMemory),
		DBHost:           os.Getenv("DB_HOST"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBPort:           getenv("DB_PORT", "3306"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getInt("REDIS_DB", 0),
		AppAuthKey:       os.Getenv("APP_AUTH_KEY"),
		AppEncKey:        os.Getenv("APP_ENC_KEY"),
		LogFile:          getenv("LOG_FILE", "./logs/storefront.log"),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("LoadEnv: invalid integer, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("LoadEnv: invalid duration, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
