// Package config загружает конфигурацию сервера из окружения и .env файла.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvProduction значение APP_ENV для боевого окружения
const EnvProduction = "production"

// Config конфигурация сервера. Создается один раз при старте.
type Config struct {
	AppEnv      string
	Port        string
	DBDriver    string
	DatabaseURL string
	ClientURL   string
	LogLevel    slog.Level

	AccessTokenSecret  string
	RefreshTokenSecret string
	EmailTokenSecret   string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	EmailTokenTTL      time.Duration

	SMTPHost       string
	SMTPUsername   string
	SMTPPassword   string
	MailFrom       string
	MailOutboxPath string
	SMTPPort       int

	RedisURL         string
	StatsCacheTTL    time.Duration
	StatsRefreshSpec string

	AuthRateLimit  int
	AuthRateWindow time.Duration
	MaxPageSize    int
}

// IsProduction сообщает, запущен ли сервер в production
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load читает envFile (если он есть) и переменные окружения.
// Переменные окружения имеют приоритет над .env файлом.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	l := &loader{}
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "3001"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL: getEnv("DATABASE_URL", "jobboard.db"),
		ClientURL:   getEnv("CLIENT_URL", "http://localhost:5173"),
		LogLevel:    l.level("LOG_LEVEL", slog.LevelInfo),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		EmailTokenSecret:   getEnv("EMAIL_TOKEN_SECRET", ""),
		AccessTokenTTL:     l.duration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL:    l.duration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		EmailTokenTTL:      l.duration("EMAIL_TOKEN_TTL", 10*time.Minute),

		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       l.int("SMTP_PORT", 587),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		MailFrom:       getEnv("MAIL_FROM", ""),
		MailOutboxPath: getEnv("MAIL_OUTBOX_PATH", "mail-outbox.db"),

		RedisURL:         getEnv("REDIS_URL", ""),
		StatsCacheTTL:    l.duration("STATS_CACHE_TTL", 5*time.Minute),
		StatsRefreshSpec: getEnv("STATS_REFRESH_SPEC", "@every 5m"),

		AuthRateLimit:  l.int("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: l.duration("AUTH_RATE_WINDOW", time.Minute),
		MaxPageSize:    l.int("MAX_PAGE_SIZE", 100),
	}

	if err := errors.Join(l.errs...); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	required := []struct{ key, value string }{
		{"ACCESS_TOKEN_SECRET", c.AccessTokenSecret},
		{"REFRESH_TOKEN_SECRET", c.RefreshTokenSecret},
		{"EMAIL_TOKEN_SECRET", c.EmailTokenSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}

	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if c.SMTPHost != "" && c.MailFrom == "" {
		errs = append(errs, errors.New("MAIL_FROM is required when SMTP_HOST is set"))
	}
	if c.MaxPageSize <= 0 {
		errs = append(errs, errors.New("MAX_PAGE_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// loader копит ошибки разбора, чтобы сообщить обо всех сразу
type loader struct {
	errs []error
}

func (l *loader) duration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}

func (l *loader) int(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}

func (l *loader) level(key string, fallback slog.Level) slog.Level {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(value))); err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return level
}
