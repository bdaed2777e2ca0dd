// Package advisor is the AI text-generation side channel: product
// description drafts and sales-insight summaries. Results are display-only
// suggestions; every failure mode collapses to "no suggestion available" at
// the caller, and nothing in the sale or reporting path ever waits on it.
package advisor

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
)

// ErrUnavailable covers missing credentials, network failure and empty model
// output alike. Callers surface it as an inert empty suggestion.
var ErrUnavailable = errors.New("advisor unavailable")

type Advisor interface {
	DraftDescription(ctx context.Context, name string, productType domain.ProductType) (string, error)
	SummarizeSales(ctx context.Context, summaries []domain.TransactionSummary, period string) (string, error)
}

// Noop is used when no API key is configured.
type Noop struct{}

func (Noop) DraftDescription(_ context.Context, _ string, _ domain.ProductType) (string, error) {
	return "", ErrUnavailable
}

func (Noop) SummarizeSales(_ context.Context, _ []domain.TransactionSummary, _ string) (string, error) {
	return "", ErrUnavailable
}

// Cached wraps an Advisor with a TTL cache so identical prompts within the
// window reuse the previous answer.
type Cached struct {
	inner Advisor
	cache SuggestionCache
	ttl   time.Duration
}

func NewCached(inner Advisor, cache SuggestionCache, ttl time.Duration) *Cached {
	if cache == nil {
		cache = NoopSuggestionCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cached{inner: inner, cache: cache, ttl: ttl}
}

func (c *Cached) DraftDescription(ctx context.Context, name string, productType domain.ProductType) (string, error) {
	key := cacheKey("desc", name, string(productType))
	if text, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return text, nil
	}

	text, err := c.inner.DraftDescription(ctx, name, productType)
	if err != nil {
		return "", err
	}
	_ = c.cache.Set(ctx, key, text, c.ttl)
	return text, nil
}

func (c *Cached) SummarizeSales(ctx context.Context, summaries []domain.TransactionSummary, period string) (string, error) {
	payload, _ := json.Marshal(summaries)
	key := cacheKey("sales", period, string(payload))
	if text, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return text, nil
	}

	text, err := c.inner.SummarizeSales(ctx, summaries, period)
	if err != nil {
		return "", err
	}
	_ = c.cache.Set(ctx, key, text, c.ttl)
	return text, nil
}

func cacheKey(kind string, parts ...string) string {
	h := sha1.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%s|", part)
	}
	return "advisor:" + kind + ":" + hex.EncodeToString(h.Sum(nil))
}
