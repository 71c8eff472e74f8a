package summarize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"docarch/internal/logger"
)

// Store is a byte cache keyed by string. cache/memory and cache/disk both
// satisfy it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Cached memoizes inner's summaries in store. Summaries are requested with
// sampling disabled, so the same (model, bounds, text) always maps to the
// same output. Store errors are logged and otherwise ignored.
func Cached(inner Summarizer, store Store, model string) Summarizer {
	if store == nil {
		return inner
	}
	return &cached{next: inner, store: store, model: model}
}

type cached struct {
	next  Summarizer
	store Store
	model string
}

func (c *cached) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	log := logger.FromContext(ctx)
	key := CacheKey(c.model, text, minLen, maxLen)

	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		log.Warn("summary cache read failed", "err", err)
	} else if ok {
		log.Debug("summary cache hit", "key", key[:12])
		return string(raw), nil
	}

	out, err := c.next.Summarize(ctx, text, minLen, maxLen)
	if err != nil {
		return "", err
	}
	if err := c.store.Set(ctx, key, []byte(out)); err != nil {
		log.Warn("summary cache write failed", "err", err)
	}
	return out, nil
}

// CacheKey is the store key for one summarization request.
func CacheKey(model, text string, minLen, maxLen int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00", model, minLen, maxLen)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
