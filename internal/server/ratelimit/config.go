package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/cv-builder/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig returns an enabled configuration with the given default rate and the
// built-in endpoint limits.
func NewConfig(requestsPerSecond float64, burst int) *Config {
	return &Config{
		Enabled:           true,
		RequestsPerSecond: requestsPerSecond,
		Burst:             burst,
		CleanupInterval:   5 * time.Minute,
		IdleTimeout:       time.Hour,
		Whitelist:         make(map[string]bool),
		Blacklist:         make(map[string]bool),
		EndpointConfigs:   DefaultEndpointConfigs(),
	}
}

// FromConfig builds the limiter configuration from the service configuration.
func FromConfig(rl config.RateLimit) *Config {
	c := NewConfig(rl.RequestsPerSecond, rl.Burst)
	c.Enabled = !rl.Disabled
	c.Whitelist = IPSet(rl.Whitelist)
	return c
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// AI-backed operations
		{Path: "/documents", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/cv/extract", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/cv/edit", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},

		// Browser-backed export
		{Path: "/documents/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},

		// Public writes
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auth/login", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/contact", Method: "POST", Limit: 5, Window: time.Hour, Burst: 2},
		{Path: "/profile/picture", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
	}
}

// IPSet turns a list of client addresses into a lookup set, skipping blanks.
func IPSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
