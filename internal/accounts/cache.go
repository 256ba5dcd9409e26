// Package accounts memoizes the signed-in user's account list for the
// duration of the session. Concurrent callers share a single in-flight
// fetch instead of issuing duplicates or polling.
package accounts

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/meridianbank/console/internal/models"
)

// FetchFunc loads the account list from the backend.
type FetchFunc func(ctx context.Context) ([]models.Account, error)

// Cache is a session-scoped, single-flight memo of the account list.
type Cache struct {
	fetch FetchFunc
	group singleflight.Group

	mu       sync.Mutex
	accounts []models.Account
	loaded   bool
}

func NewCache(fetch FetchFunc) *Cache {
	return &Cache{fetch: fetch}
}

// Get returns the cached list, fetching it at most once however many
// callers arrive concurrently. Fetch errors are not cached; the next call
// retries.
func (c *Cache) Get(ctx context.Context) ([]models.Account, error) {
	c.mu.Lock()
	if c.loaded {
		cached := c.accounts
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("accounts", func() (any, error) {
		list, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.accounts = list
		c.loaded = true
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Account), nil
}

// Invalidate drops the memo. Called on logout.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.accounts = nil
	c.loaded = false
	c.mu.Unlock()
}
