package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Endpoint limits one route. A Path ending in "/" matches by prefix and
// shares a single bucket across the matched paths.
type Endpoint struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	// Burst defaults to Limit.
	Burst int
}

// Config holds the limiter settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Allow           map[string]bool
	Deny            map[string]bool
	Endpoints       []Endpoint
}

// DefaultEndpoints throttles the routes that reach the record store or
// blob storage harder than plain reads.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Path: "/webhook", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/roles/", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},
		{Path: "/sessions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/sessions/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// LoadConfig reads RATE_LIMIT_* variables through lookup, which matches
// os.LookupEnv.
func LoadConfig(lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	enabled := true
	if v := get("RATE_LIMIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			enabled = b
		}
	}
	if !enabled {
		return Config{}
	}

	cfg := Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Allow:           parseIPList(get("RATE_LIMIT_WHITELIST")),
		Deny:            parseIPList(get("RATE_LIMIT_BLACKLIST")),
		Endpoints:       DefaultEndpoints(),
	}
	if n, err := strconv.Atoi(get("RATE_LIMIT_DEFAULT_LIMIT")); err == nil {
		cfg.DefaultLimit = n
	}
	if d, err := time.ParseDuration(get("RATE_LIMIT_DEFAULT_WINDOW")); err == nil {
		cfg.DefaultWindow = d
	}
	return cfg
}

func parseIPList(list string) map[string]bool {
	out := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
