package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(config)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestTokenBucket_TakeAndRefill(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(3, 1.0, start)

	for i := 0; i < 3; i++ {
		allowed, _, _, _ := bucket.take(start)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, remaining, _, retryAfter := bucket.take(start)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, time.Second, retryAfter)

	allowed, _, _, _ = bucket.take(start.Add(1100 * time.Millisecond))
	assert.True(t, allowed)
}

func TestTokenBucket_RefillCapsAtCapacity(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(2, 10.0, start)

	_, remaining, resetAt, _ := bucket.take(start.Add(time.Hour))
	assert.Equal(t, 1, remaining)
	assert.True(t, resetAt.After(start.Add(time.Hour)))
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/resume/generate", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/api/resume/generate", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/api/resume/generate", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	allowed, info = limiter.Allow("127.0.0.1", "/api/profile", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	allowed, _ = limiter.Allow("10.0.0.2", "/api/resume/generate", "POST")
	assert.True(t, allowed, "other clients have their own bucket")
}

func TestLimiter_BurstThenRefill(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: "POST", Limit: 60, Window: time.Minute, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("c", "/burst", "POST")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("c", "/burst", "POST")
	assert.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = limiter.Allow("c", "/burst", "POST")
	assert.True(t, allowed)
}

func TestLimiter_PrefixSharesBucket(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/resume/history/", Method: "DELETE", Limit: 2, Window: time.Minute},
		},
	})

	a, _ := limiter.Allow("c", "/api/resume/history/1", "DELETE")
	b, _ := limiter.Allow("c", "/api/resume/history/2", "DELETE")
	c, _ := limiter.Allow("c", "/api/resume/history/3", "DELETE")
	assert.True(t, a)
	assert.True(t, b)
	assert.False(t, c)
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.9": true},
	})

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/x", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("10.0.0.9", "/x", "GET")
	assert.False(t, allowed)

	disabled, _ := newTestLimiter(t, &Config{Enabled: false})
	allowed, info := disabled.Allow("c", "/x", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 0, info.Limit)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("c", "/api/health", "GET")
		assert.True(t, allowed)
	}
	assert.Equal(t, 0, limiter.Size())
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var allowedCount int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("c", "/test", "GET"); allowed {
				atomic.AddInt32(&allowedCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount)
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 4; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/test", "GET")
	}
	require.Equal(t, 4, limiter.Size())

	clock.Advance(idleBucketTTL - time.Minute)
	limiter.Allow("10.0.0.0", "/test", "GET")
	clock.Advance(2 * time.Minute)
	limiter.cleanup()

	assert.Equal(t, 1, limiter.Size())
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter, _ := newTestLimiter(t, nil)

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	ep := MatchEndpoint("/api/ats/analyze", "POST", configs)
	require.NotNil(t, ep)
	assert.Equal(t, time.Hour, ep.Window)

	ep = MatchEndpoint("/api/resume/history/abc", "DELETE", configs)
	require.NotNil(t, ep)
	assert.Equal(t, "/api/resume/history/", ep.Path)

	assert.Nil(t, MatchEndpoint("/api/ats/analyze", "GET", configs))
	assert.Equal(t, 0, MatchEndpoint("/health", "GET", configs).Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestLoadConfig_GenerationTierAndBadValues(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_GENERATION_LIMIT":  "5",
		"RATE_LIMIT_GENERATION_WINDOW": "10m",
		"RATE_LIMIT_DEFAULT_LIMIT":     "lots",
		"RATE_LIMIT_BLACKLIST":         " , 10.0.0.9,",
	}
	cfg := loadConfig(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit, "unparsable value falls back to the default")
	assert.Equal(t, map[string]bool{"10.0.0.9": true}, cfg.Blacklist)
	assert.Empty(t, cfg.Whitelist)

	ep := MatchEndpoint("/api/portfolio/generate", "POST", cfg.EndpointConfigs)
	require.NotNil(t, ep)
	assert.Equal(t, 5, ep.Limit)
	assert.Equal(t, 10*time.Minute, ep.Window)
	assert.Equal(t, DefaultGenerationTier.Burst, ep.Burst)

	ep = MatchEndpoint("/api/admin/users/123", "DELETE", cfg.EndpointConfigs)
	require.NotNil(t, ep)
	assert.Equal(t, DefaultWriteTier.Limit, ep.Limit)
}
