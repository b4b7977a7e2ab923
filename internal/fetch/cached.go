package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/valkey-io/valkey-go"
)

// DefaultPageCacheTTL is how long extracted job descriptions are kept.
const DefaultPageCacheTTL = 6 * time.Hour

const pageKeyPrefix = "jobpage:"

// PageCache stores extracted job description text by URL.
type PageCache interface {
	Get(ctx context.Context, url string) (text string, ok bool, err error)
	Set(ctx context.Context, url, text string, ttl time.Duration) error
}

// ValkeyPageCache is a PageCache backed by Valkey string keys.
type ValkeyPageCache struct {
	client valkey.Client
}

// NewValkeyPageCache uses an existing client. The caller owns the client.
func NewValkeyPageCache(client valkey.Client) *ValkeyPageCache {
	return &ValkeyPageCache{client: client}
}

func (c *ValkeyPageCache) Get(ctx context.Context, url string) (string, bool, error) {
	text, err := c.client.Do(ctx, c.client.B().Get().Key(pageKey(url)).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("unable to read cached page: %w", err)
	}
	return text, true, nil
}

func (c *ValkeyPageCache) Set(ctx context.Context, url, text string, ttl time.Duration) error {
	cmd := c.client.B().Set().Key(pageKey(url)).Value(text).Ex(ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("unable to cache page: %w", err)
	}
	return nil
}

func pageKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return pageKeyPrefix + hex.EncodeToString(sum[:])
}

// CachedFetcher serves job descriptions from a PageCache and downloads on a
// miss. A nil cache disables caching.
type CachedFetcher struct {
	cache    PageCache
	client   *Client
	cacheTTL time.Duration
}

// NewCachedFetcher creates a fetcher. A nil client uses NewClient and a zero
// ttl uses DefaultPageCacheTTL.
func NewCachedFetcher(cache PageCache, client *Client, ttl time.Duration) *CachedFetcher {
	if client == nil {
		client = NewClient()
	}
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	return &CachedFetcher{cache: cache, client: client, cacheTTL: ttl}
}

// JobDescription returns the description text for urlStr.
func (f *CachedFetcher) JobDescription(ctx context.Context, urlStr string) (string, error) {
	if f.cache != nil {
		text, ok, err := f.cache.Get(ctx, urlStr)
		if err != nil {
			log.Printf("[fetch] cache read failed: %v", err)
		}
		if ok && text != "" {
			return text, nil
		}
	}

	text, err := f.client.JobDescription(ctx, urlStr)
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, urlStr, text, f.cacheTTL); err != nil {
			log.Printf("[fetch] cache write failed: %v", err)
		}
	}
	return text, nil
}
