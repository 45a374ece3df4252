package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the app needs to run. Values come from the
// environment (WARTEG_ prefix) with sensible defaults for local development.
type Config struct {
	BackendURL    string
	Port          string
	HTTPTimeout   time.Duration
	SessionCookie string
	SessionTTL    time.Duration
}

func Load() *Config {
	v := viper.New()
	v.SetDefault("backend_url", "http://localhost:3000/api")
	v.SetDefault("port", "8080")
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("session_cookie", "warteg_session")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetEnvPrefix("WARTEG")
	v.AutomaticEnv()

	return &Config{
		BackendURL:    v.GetString("backend_url"),
		Port:          v.GetString("port"),
		HTTPTimeout:   v.GetDuration("http_timeout"),
		SessionCookie: v.GetString("session_cookie"),
		SessionTTL:    v.GetDuration("session_ttl"),
	}
}
