package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the leads API service.
//
// Missing secrets do not fail Load: the lead service validates their presence
// on the first request and answers with a generic misconfiguration error, so
// that a broken deployment never leaks which secret is absent.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	ResendAPIKey      string
	ResendFromEmail   string
	NotificationEmail string
	LeadSource        string
	RateLimitMax      int
	RateLimitWindow   time.Duration
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
	v.SetEnvPrefix("LEADS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Leads API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("lead.source", "consultation_modal")
	v.SetDefault("rate_limit.max", 10)
	v.SetDefault("rate_limit.window", "1m")

	windowString := v.GetString("rate_limit.window")
	if windowString == "" {
		windowString = "1m"
	}

	window, err := time.ParseDuration(windowString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		ResendAPIKey:      v.GetString("resend.api_key"),
		ResendFromEmail:   v.GetString("resend.from_email"),
		NotificationEmail: v.GetString("notification.email"),
		LeadSource:        v.GetString("lead.source"),
		RateLimitMax:      v.GetInt("rate_limit.max"),
		RateLimitWindow:   window,
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 10
	}

	return cfg, nil
}
