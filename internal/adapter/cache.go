package adapter

import (
	"context"
	"sync"
)

// FetchResult is one event of a cache-then-network fetch. FromCache marks the
// immediately served cached copy; the live result always follows it.
type FetchResult struct {
	Response  *Response
	FromCache bool
	Err       error
}

// CacheGateway wraps a [Dispatcher] for read endpoints with the serve-cached-
// then-refresh pattern. Entries have no TTL; staleness is bounded only by how
// often callers re-fetch.
type CacheGateway struct {
	dispatcher Dispatcher

	mu      sync.RWMutex
	entries map[string]*Response
}

// NewCacheGateway constructs a [CacheGateway] over dispatcher.
func NewCacheGateway(dispatcher Dispatcher) *CacheGateway {
	return &CacheGateway{
		dispatcher: dispatcher,
		entries:    make(map[string]*Response),
	}
}

// Fetch dispatches req and returns a channel of at most two results. When
// useCache is true and the request's cache key is populated, the cached
// response is emitted first, before the live request is even issued; the
// fresh response follows when the round trip completes and replaces the
// cache entry. The channel is closed after the final event.
func (g *CacheGateway) Fetch(ctx context.Context, req Request, useCache bool) <-chan FetchResult {
	out := make(chan FetchResult, 2)
	key := cacheKey(req)

	if useCache {
		if cached, ok := g.lookup(key); ok {
			out <- FetchResult{Response: cached, FromCache: true}
		}
	}

	go func() {
		defer close(out)

		resp, err := g.dispatcher.Send(ctx, req)
		if err == nil {
			g.storeEntry(key, resp)
		}
		out <- FetchResult{Response: resp, Err: err}
	}()

	return out
}

func (g *CacheGateway) lookup(key string) (*Response, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	resp, ok := g.entries[key]
	return resp, ok
}

func (g *CacheGateway) storeEntry(key string, resp *Response) {
	g.mu.Lock()
	g.entries[key] = resp
	g.mu.Unlock()
}

// cacheKey derives the cache key from the request path and parameters.
// url.Values.Encode sorts by key, so parameter order does not fragment the
// cache.
func cacheKey(req Request) string {
	return req.Method + " " + req.Path + "?" + req.Query.Encode()
}
