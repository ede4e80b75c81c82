package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	StorageDir    string
	WorkerCount   int
	AdminEmail    string
	AdminPassword string
	CookieSecure  bool
}

var loadDotenv = func() error { return godotenv.Load() }

// Load reads the configuration from the environment, after merging an
// optional .env file (real environment variables win).
func Load() (Config, error) {
	if err := loadDotenv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env file, relying on environment")
	}

	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StorageDir:    env("STORAGE_DIR", "./storage"),
		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if c.DatabaseURL == "" {
		return c, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if c.RedisAddr == "" {
		return c, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	if c.JWTSecret == "" {
		return c, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	var err error
	if c.RedisDB, err = atoi("REDIS_DB", 0); err != nil || c.RedisDB < 0 {
		return c, fmt.Errorf("無效的 REDIS_DB: %v", err)
	}
	if c.WorkerCount, err = atoi("WORKER_COUNT", 2); err != nil || c.WorkerCount <= 0 {
		return c, fmt.Errorf("無效的 WORKER_COUNT: %v", err)
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if c.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return c, fmt.Errorf("無效的 COOKIE_SECURE: %v", err)
		}
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return c, fmt.Errorf("ADMIN_EMAIL 與 ADMIN_PASSWORD 必須同時設定")
	}
	return c, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
