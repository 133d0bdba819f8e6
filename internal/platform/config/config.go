package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Client captures configuration for the staffdesk client binary.
type Client struct {
	BackendURL   string
	TokenPath    string
	RedisURL     string
	SyncInterval time.Duration
	Production   bool
}

// Gate captures configuration for the route-gate server.
type Gate struct {
	Addr        string
	UpstreamURL string
	LoginPath   string
}

// DefaultSyncInterval is how often the credential synchronizer re-projects
// the stored token into the cookie copy.
const DefaultSyncInterval = 5 * time.Second

// ClientFromEnv builds client config from environment variables so main stays lean.
func ClientFromEnv() Client {
	backend := os.Getenv("STAFFDESK_BACKEND_URL")
	if backend == "" {
		backend = "http://localhost:5000"
	}

	tokenPath := os.Getenv("STAFFDESK_TOKEN_PATH")
	if tokenPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			tokenPath = filepath.Join(dir, "staffdesk", "auth_token")
		} else {
			tokenPath = filepath.Join(os.TempDir(), "staffdesk-auth_token")
		}
	}

	interval := DefaultSyncInterval
	if raw := os.Getenv("STAFFDESK_SYNC_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	production, _ := strconv.ParseBool(os.Getenv("STAFFDESK_PRODUCTION"))

	return Client{
		BackendURL:   backend,
		TokenPath:    tokenPath,
		RedisURL:     os.Getenv("STAFFDESK_REDIS_URL"),
		SyncInterval: interval,
		Production:   production,
	}
}

// GateFromEnv builds gate config from environment variables.
func GateFromEnv() Gate {
	addr := os.Getenv("STAFFDESK_GATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	upstream := os.Getenv("STAFFDESK_GATE_UPSTREAM")
	if upstream == "" {
		upstream = "http://localhost:3000"
	}

	loginPath := os.Getenv("STAFFDESK_GATE_LOGIN_PATH")
	if loginPath == "" {
		loginPath = "/login"
	}

	return Gate{
		Addr:        addr,
		UpstreamURL: upstream,
		LoginPath:   loginPath,
	}
}

// RedisConfig holds connection settings for the optional shared token store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisFromEnv derives redis settings with conservative defaults.
func RedisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("STAFFDESK_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
