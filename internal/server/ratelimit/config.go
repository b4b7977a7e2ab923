package ratelimit

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig limits one method on an exact path, or on every path under
// it when Path ends in "/". Burst defaults to Limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Tier is a shared limit applied to a group of endpoints.
type Tier struct {
	Limit  int
	Window time.Duration
	Burst  int
}

func (t Tier) endpoint(method, path string) EndpointConfig {
	return EndpointConfig{Path: path, Method: method, Limit: t.Limit, Window: t.Window, Burst: t.Burst}
}

// Generation endpoints call the paid backend; credentials are limited against
// guessing; writes form the moderate tier.
var (
	DefaultGenerationTier = Tier{Limit: 30, Window: time.Hour, Burst: 5}
	DefaultWriteTier      = Tier{Limit: 100, Window: time.Minute, Burst: 10}
)

// LoadConfig reads the RATE_LIMIT_* environment variables. Unparsable values
// are logged and replaced with their defaults.
func LoadConfig() *Config {
	return loadConfig(envReader(os.LookupEnv))
}

func loadConfig(env envReader) *Config {
	if !env.flag("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	generation := Tier{
		Limit:  env.number("RATE_LIMIT_GENERATION_LIMIT", DefaultGenerationTier.Limit),
		Window: env.duration("RATE_LIMIT_GENERATION_WINDOW", DefaultGenerationTier.Window),
		Burst:  env.number("RATE_LIMIT_GENERATION_BURST", DefaultGenerationTier.Burst),
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.number("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       ipSet(env.text("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(env.text("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: EndpointConfigs(generation, DefaultWriteTier),
	}
}

// DefaultEndpointConfigs returns the endpoint limits with the default tiers.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(DefaultGenerationTier, DefaultWriteTier)
}

// EndpointConfigs builds the per-endpoint limits from the two tiers.
func EndpointConfigs(generation, write Tier) []EndpointConfig {
	return []EndpointConfig{
		generation.endpoint("POST", "/api/resume/generate"),
		generation.endpoint("POST", "/api/cover-letter/generate"),
		generation.endpoint("POST", "/api/portfolio/generate"),
		generation.endpoint("POST", "/api/ats/analyze"),

		{Path: "/api/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},

		write.endpoint("PUT", "/api/profile"),
		write.endpoint("PUT", "/api/auth/password"),
		write.endpoint("DELETE", "/api/resume/history/"),
		write.endpoint("DELETE", "/api/admin/users/"),
		{Path: "/api/sections/parse", Method: "POST", Limit: 100, Window: time.Minute, Burst: 20},
	}
}

// envReader looks up one environment variable.
type envReader func(key string) (string, bool)

func (e envReader) text(key string) string {
	v, _ := e(key)
	return strings.TrimSpace(v)
}

func (e envReader) number(key string, def int) int {
	return parseOr(e, key, def, strconv.Atoi)
}

func (e envReader) flag(key string, def bool) bool {
	return parseOr(e, key, def, strconv.ParseBool)
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	return parseOr(e, key, def, time.ParseDuration)
}

func parseOr[T any](e envReader, key string, def T, parse func(string) (T, error)) T {
	raw := e.text(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Printf("[rate-limit] ignoring %s=%q: %v", key, raw, err)
		return def
	}
	return v
}

// ipSet parses a comma-separated address list.
func ipSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
