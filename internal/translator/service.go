package translator

import (
	"context"
	"fmt"
	"os"
	"sync"

	"codeberg.org/snonux/wordwire/internal/provider"
)

// Translator produces a normalized result for a piece of text.
type Translator interface {
	Translate(ctx context.Context, text, fromTag, toTag string) (*provider.Result, error)

	// Name identifies the translator in fallback messages
	Name() string
}

// WebTranslator adapts the provider client to the Translator interface.
type WebTranslator struct {
	client *provider.Client
}

// NewWebTranslator wraps a provider client.
func NewWebTranslator(client *provider.Client) *WebTranslator {
	return &WebTranslator{client: client}
}

// Translate delegates to the provider client.
func (w *WebTranslator) Translate(ctx context.Context, text, fromTag, toTag string) (*provider.Result, error) {
	return w.client.Translate(ctx, text, fromTag, toTag)
}

// Name returns the translator name.
func (w *WebTranslator) Name() string {
	return "web"
}

// Service is the translation entry point: cache first, then the primary
// translator, then the fallback if one is configured.
type Service struct {
	primary  Translator
	fallback Translator // may be nil
	cache    *Cache
}

// NewService creates a service. fallback may be nil.
func NewService(primary, fallback Translator) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		cache:    NewCache(),
	}
}

// Translate returns a cached result when available, otherwise asks the
// primary translator and falls back on error.
func (s *Service) Translate(ctx context.Context, text, fromTag, toTag string) (*provider.Result, error) {
	key := cacheKey(text, fromTag, toTag)
	if result, ok := s.cache.Get(key); ok {
		return result, nil
	}

	result, err := s.primary.Translate(ctx, text, fromTag, toTag)
	if err != nil && s.fallback != nil {
		fmt.Fprintf(os.Stderr, "Primary translator (%s) failed: %v. Falling back to %s\n",
			s.primary.Name(), err, s.fallback.Name())
		result, err = s.fallback.Translate(ctx, text, fromTag, toTag)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, result)
	return result, nil
}

// Cache stores results in memory for batch operations.
type Cache struct {
	mu      sync.RWMutex
	results map[string]*provider.Result
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]*provider.Result)}
}

// Add stores a result under the given key.
func (c *Cache) Add(key string, result *provider.Result) {
	c.mu.Lock()
	c.results[key] = result
	c.mu.Unlock()
}

// Get retrieves a result.
func (c *Cache) Get(key string) (*provider.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.results[key]
	return result, ok
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

func cacheKey(text, fromTag, toTag string) string {
	return fromTag + "\x00" + toTag + "\x00" + text
}
