package music

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshSkew is how long before expiry a token is treated as stale. Short-lived
// tokens use half their lifetime instead.
const refreshSkew = 60 * time.Second

// FetchTokenFunc obtains a fresh access token and its lifetime.
type FetchTokenFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// TokenCache holds one access token and refreshes it shortly before it expires.
// Concurrent callers that find the token stale share a single refresh.
type TokenCache struct {
	fetch FetchTokenFunc
	now   func() time.Time

	mu        sync.RWMutex
	token     string
	refreshAt time.Time

	group singleflight.Group
}

func NewTokenCache(fetch FetchTokenFunc) *TokenCache {
	return &TokenCache{fetch: fetch, now: time.Now}
}

func (c *TokenCache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" && c.now().Before(c.refreshAt) {
		return c.token, true
	}
	return "", false
}

// Token returns a valid token, fetching one if the cached token is missing or stale.
// A caller whose ctx ends stops waiting; the shared refresh keeps running for others.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	ch := c.group.DoChan("token", func() (any, error) {
		if tok, ok := c.cached(); ok {
			return tok, nil
		}
		tok, ttl, err := c.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}
		if tok == "" {
			return "", errors.New("empty access token")
		}
		c.mu.Lock()
		c.token = tok
		c.refreshAt = c.now().Add(ttl - min(refreshSkew, ttl/2))
		c.mu.Unlock()
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached token, for example after the provider rejects it.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.refreshAt = time.Time{}
	c.mu.Unlock()
}
