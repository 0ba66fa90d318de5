// Package config gathers the service settings from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	RedisURL    string

	SecretKey string
	TokenTTL  time.Duration

	RateLimitKey    string
	RateLimitMax    int
	RateLimitWindow time.Duration

	DashboardCacheTTL         time.Duration
	DashboardBreakdownPattern string
	DashboardCategory         string

	CORSAllowedOrigins []string

	Mail Mail

	SeedAdmin SeedAdmin
}

type Mail struct {
	SMTPAddr      string
	SMTPPort      string
	FromEmail     string
	FromPassword  string
	AdminEmail    string
	TemplatesDir  string
	NotifyOnReply bool
}

// Enabled reports whether enough settings are present to send mail.
func (m Mail) Enabled() bool {
	return m.SMTPAddr != "" && m.FromEmail != "" && m.AdminEmail != ""
}

type SeedAdmin struct {
	Name     string
	Email    string
	Password string
}

func (s SeedAdmin) Enabled() bool {
	return s.Email != "" && s.Password != ""
}

// Load reads the configuration. The returned error names every bad value.
func Load() (Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	var errs []error

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SecretKey:   os.Getenv("SECRET_KEY"),

		RateLimitKey: getEnv("RATE_LIMIT_KEY", "stresspulse-limiter"),

		DashboardBreakdownPattern: getEnv("DASHBOARD_BREAKDOWN_PATTERN", "stress"),
		DashboardCategory:         getEnv("DASHBOARD_CATEGORY", "coping"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		Mail: Mail{
			SMTPAddr:     os.Getenv("SMTP_ADDR"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			FromEmail:    os.Getenv("FROM_EMAIL"),
			FromPassword: os.Getenv("FROM_EMAIL_PASSWORD"),
			AdminEmail:   os.Getenv("ADMIN_EMAIL"),
			TemplatesDir: getEnv("TEMPLATES_DIR", "./api/email/templates"),
		},

		SeedAdmin: SeedAdmin{
			Name:     getEnv("SEED_ADMIN_NAME", "Administrator"),
			Email:    os.Getenv("SEED_ADMIN_EMAIL"),
			Password: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
	}

	cfg.TokenTTL = getDuration("TOKEN_TTL", 7*24*time.Hour, &errs)
	cfg.RateLimitMax = getInt("RATE_LIMIT_MAX", 1000, &errs)
	cfg.RateLimitWindow = getDuration("RATE_LIMIT_WINDOW", time.Minute, &errs)
	cfg.DashboardCacheTTL = getDuration("DASHBOARD_CACHE_TTL", 30*time.Second, &errs)
	cfg.Mail.NotifyOnReply = getBool("NOTIFY_ON_RESPONSE", true, &errs)

	if cfg.RateLimitMax < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX must be at least 1"))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive"))
	}

	return cfg, errors.Join(errs...)
}

// Validate checks the settings the HTTP server cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, fmt.Errorf("DATABASE_URL environment variable not set"))
	}
	if c.SecretKey == "" {
		errs = append(errs, fmt.Errorf("SECRET_KEY environment variable not set"))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errs *[]error) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not a boolean", key, v))
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
