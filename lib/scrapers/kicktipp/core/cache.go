package core

import (
	"context"
	"net/url"
	"sync"

	"github.com/PuerkitoBio/purell"
	"golang.org/x/sync/singleflight"
)

// PageCache memoizes fetches for the lifetime of one logical operation.
// A multi-fixture query touches the same detail pages dozens of times,
// concurrent lookups for the same key share a single in-flight request.
//
// Callers construct a fresh cache per top-level operation and let it be
// collected afterwards, it is never shared across independent operations.
type PageCache struct {
	client *Client
	group  singleflight.Group

	mu    sync.Mutex
	pages map[string]Page
}

func NewPageCache(client *Client) *PageCache {
	return &PageCache{
		client: client,
		pages:  map[string]Page{},
	}
}

func (c *PageCache) key(endpoint string, query url.Values) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := ref.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	// Encode sorts query keys, so parameter order never splits the cache
	ref.RawQuery = q.Encode()

	full := c.client.BaseUrl.ResolveReference(ref)
	return purell.NormalizeURL(
		full,
		purell.FlagsSafe|purell.FlagsUsuallySafeNonGreedy,
	), nil
}

func (c *PageCache) Fetch(ctx context.Context, endpoint string, query url.Values) (Page, error) {
	key, err := c.key(endpoint, query)
	if err != nil {
		return Page{}, err
	}

	c.mu.Lock()
	page, ok := c.pages[key]
	c.mu.Unlock()
	if ok {
		return page, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		page, err := c.client.Fetch(ctx, endpoint, query)
		if err != nil {
			return Page{}, err
		}
		c.mu.Lock()
		c.pages[key] = page
		c.mu.Unlock()
		return page, nil
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}
