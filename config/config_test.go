package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.SessionCookie != "warteg_session" {
		t.Errorf("cookie = %q", cfg.SessionCookie)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("timeout = %v", cfg.HTTPTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WARTEG_BACKEND_URL", "http://backend:3000/api")
	t.Setenv("WARTEG_SESSION_TTL", "30m")
	cfg := Load()
	if cfg.BackendURL != "http://backend:3000/api" {
		t.Errorf("backend url = %q", cfg.BackendURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("session ttl = %v", cfg.SessionTTL)
	}
}
