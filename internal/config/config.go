package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	JWTSecret          string
	GradeReportTTL     time.Duration
	EnrollRateLimit    int
	EnrollRateWindow   time.Duration
	SubmitRateLimit    int
	SubmitRateWindow   time.Duration
	DefaultPageSize    int
	MaxPageSize        int
	EventSubjectPrefix string
	SeedEnabled        bool
	SeedToken          string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LMS API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("grade_report.ttl", "5m")
	v.SetDefault("enroll.rate_limit", 10)
	v.SetDefault("enroll.rate_window", "1m")
	v.SetDefault("submit.rate_limit", 20)
	v.SetDefault("submit.rate_window", "1m")
	v.SetDefault("page.default_size", 20)
	v.SetDefault("page.max_size", 100)
	v.SetDefault("events.subject_prefix", "lms")

	ttl, err := time.ParseDuration(v.GetString("grade_report.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid grade report ttl: %w", err)
	}

	enrollWindow, err := time.ParseDuration(v.GetString("enroll.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid enroll rate window: %w", err)
	}

	submitWindow, err := time.ParseDuration(v.GetString("submit.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		GradeReportTTL:     ttl,
		EnrollRateLimit:    v.GetInt("enroll.rate_limit"),
		EnrollRateWindow:   enrollWindow,
		SubmitRateLimit:    v.GetInt("submit.rate_limit"),
		SubmitRateWindow:   submitWindow,
		DefaultPageSize:    v.GetInt("page.default_size"),
		MaxPageSize:        v.GetInt("page.max_size"),
		EventSubjectPrefix: v.GetString("events.subject_prefix"),
		SeedEnabled:        v.GetBool("seed.enabled"),
		SeedToken:          v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}

	return cfg, nil
}
