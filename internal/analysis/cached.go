package analysis

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes successful analyses keyed by the submitted content, so
// an identical re-submission is answered without another backend call.
// Failures are not cached.
type Cached struct {
	next  Analyzer
	cache *lru.Cache[string, string]
}

func NewCached(next Analyzer, size int) (*Cached, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Analyze(ctx context.Context, content string) (string, error) {
	if reply, ok := c.cache.Get(content); ok {
		return reply, nil
	}
	reply, err := c.next.Analyze(ctx, content)
	if err != nil {
		return "", err
	}
	c.cache.Add(content, reply)
	return reply, nil
}
