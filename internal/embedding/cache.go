package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/valkey-io/valkey-go"
)

const cacheKeyPrefix = "embedding:"

// Store is the key/value backend of CachedProvider.
type Store interface {
	// Get returns the cached vector, or ok=false on a miss
	Get(ctx context.Context, key string) (vector []float32, ok bool, err error)
	Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error
	Close()
}

// ValkeyStore stores vectors in Valkey as raw little-endian float32 strings.
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore connects to Valkey and verifies the connection.
func NewValkeyStore(ctx context.Context, address, password string) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create Valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping Valkey: %w", err)
	}

	return &ValkeyStore{client: client}, nil
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]float32, bool, error) {
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("unable to read %s: %w", key, err)
	}
	return valkey.ToVector32(raw), true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	cmd := s.client.B().Set().
		Key(key).
		Value(valkey.VectorString32(vector)).
		Ex(ttl).
		Build()

	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("unable to write %s: %w", key, err)
	}
	return nil
}

func (s *ValkeyStore) Close() {
	s.client.Close()
}

// CachedProvider serves repeated texts from a Store and only sends misses to
// the wrapped provider. Cache failures are logged and fall through to the
// provider.
type CachedProvider struct {
	next  Provider
	store Store
	model string
	ttl   time.Duration
}

// NewCachedProvider wraps next with store. model namespaces the cache keys so
// vectors from different models never mix.
func NewCachedProvider(next Provider, store Store, model string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, store: store, model: model, ttl: ttl}
}

func (c *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		keys[i] = c.key(text)
		vec, ok, err := c.store.Get(ctx, keys[i])
		if err != nil {
			log.Printf("[embedding] cache read failed: %v", err)
		}
		if ok && len(vec) > 0 {
			vectors[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := c.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if err := checkCount(len(fresh), len(missTexts)); err != nil {
		return nil, err
	}

	for j, i := range missIdx {
		vectors[i] = fresh[j]
		if err := c.store.Set(ctx, keys[i], fresh[j], c.ttl); err != nil {
			log.Printf("[embedding] cache write failed: %v", err)
		}
	}
	return vectors, nil
}

// Close closes the store and the wrapped provider.
func (c *CachedProvider) Close() error {
	c.store.Close()
	return c.next.Close()
}

func (c *CachedProvider) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
