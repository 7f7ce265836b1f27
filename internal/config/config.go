// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Events   EventsConfig
	Logging  LoggingConfig
	Workers  int
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TagTTL   time.Duration
}

// AuthConfig 只放 HTTP 層用到的設定；JWT_SECRET 由 service 套件直接讀取，
// Load 只確認它存在
type AuthConfig struct {
	// RatePerSecond 限制 /api/auth/* 每個 IP 的請求速率
	RatePerSecond float64
}

type EventsConfig struct {
	MaxPhotoBytes int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load 從環境變數讀取設定，必要欄位缺漏或格式錯誤時回傳錯誤
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Logging:  LoggingFromEnv(),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	var err error
	if cfg.Database, err = LoadDatabase(); err != nil {
		return Config{}, err
	}
	if cfg.Redis.Addr == "" {
		return Config{}, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	if os.Getenv("JWT_SECRET") == "" {
		return Config{}, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	if err := cfg.Logging.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("無效的 REDIS_DB: %w", err)
	}
	if cfg.Redis.DB < 0 {
		return Config{}, outOfRange("REDIS_DB", cfg.Redis.DB, "不可小於 0")
	}
	if cfg.Workers, err = getEnvInt("WORKER_COUNT", 1); err != nil {
		return Config{}, fmt.Errorf("無效的 WORKER_COUNT: %w", err)
	}
	if cfg.Workers <= 0 {
		return Config{}, outOfRange("WORKER_COUNT", cfg.Workers, "必須大於 0")
	}
	if cfg.Events.MaxPhotoBytes, err = getEnvInt("MAX_PHOTO_BYTES", 5<<20); err != nil {
		return Config{}, fmt.Errorf("無效的 MAX_PHOTO_BYTES: %w", err)
	}
	if cfg.Events.MaxPhotoBytes <= 0 {
		return Config{}, outOfRange("MAX_PHOTO_BYTES", cfg.Events.MaxPhotoBytes, "必須大於 0")
	}
	if cfg.Redis.TagTTL, err = getEnvDuration("TAG_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, fmt.Errorf("無效的 TAG_CACHE_TTL: %w", err)
	}
	if cfg.Auth.RatePerSecond, err = getEnvFloat("AUTH_RATE_LIMIT", 10); err != nil {
		return Config{}, fmt.Errorf("無效的 AUTH_RATE_LIMIT: %w", err)
	}
	if cfg.Auth.RatePerSecond <= 0 {
		return Config{}, outOfRange("AUTH_RATE_LIMIT", cfg.Auth.RatePerSecond, "必須大於 0")
	}
	return cfg, nil
}

// LoadDatabase 只讀取資料庫設定，供 migrate 與 grant 指令使用
func LoadDatabase() (DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return DatabaseConfig{}, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	return DatabaseConfig{URL: url}, nil
}

func LoggingFromEnv() LoggingConfig {
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}
}

func outOfRange(key string, v any, rule string) error {
	return fmt.Errorf("無效的 %s: %v %s", key, v, rule)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
