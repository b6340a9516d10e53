package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tour_catalog/internal/domain"
)

// generationKey counts catalog writes. Cached reads are keyed by the current
// generation, so one INCR retires every cached listing at once.
const generationKey = "tours:gen"

func cachedRead[T any](ctx context.Context, c domain.Cache, ttl time.Duration, name string, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}
	var gen int64
	if _, err := c.Get(ctx, generationKey, &gen); err != nil {
		log.Warn().Err(err).Str("key", generationKey).Msg("cache generation read failed")
		return load()
	}
	key := fmt.Sprintf("tours:%d:%s", gen, name)

	var out T
	if ok, _ := c.Get(ctx, key, &out); ok {
		return out, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	_ = c.Set(ctx, key, v, int(ttl.Seconds()))
	return v, nil
}

func bumpGeneration(ctx context.Context, c domain.Cache) {
	if c == nil {
		return
	}
	if _, err := c.Incr(ctx, generationKey); err != nil {
		log.Error().Err(err).Msg("cache generation bump failed")
	}
}
