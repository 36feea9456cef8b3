package backlog

import (
	"os"
	"strconv"
	"strings"
)

// Config holds everything needed to talk to one Backlog space.
type Config struct {
	// Host is the space domain, e.g. "example.backlog.com". A host that
	// already carries a scheme ("http://127.0.0.1:8080") is used as-is.
	Host      string
	APIKey    string
	Scheme    string
	TimeoutMs int
	LogCalls  bool
}

// DefaultConfig returns a Config with sensible defaults and no host or key.
func DefaultConfig() Config {
	return Config{
		Scheme:    "https",
		TimeoutMs: 15000,
		LogCalls:  false,
	}
}

// LoadConfig reads client configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BACKLOGTMPL_SCHEME"); v == "http" || v == "https" {
		cfg.Scheme = v
	}
	if v := os.Getenv("BACKLOGTMPL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("BACKLOGTMPL_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}

// WithHost returns a copy of c targeting host with the given API key.
func (c Config) WithHost(host, apiKey string) Config {
	c.Host = host
	c.APIKey = apiKey
	return c
}

// BaseURL returns the API v2 root for the configured host, with a trailing slash.
func (c Config) BaseURL() string {
	host := strings.TrimRight(c.Host, "/")
	if strings.Contains(host, "://") {
		return host + "/api/v2/"
	}
	scheme := c.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + host + "/api/v2/"
}
