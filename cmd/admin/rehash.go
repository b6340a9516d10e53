package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tour_catalog/internal/app"
	"tour_catalog/internal/domain"
)

// rehashAll hashes every legacy admin password with at most workers bcrypt
// calls in flight. It returns how many records were rewritten.
func rehashAll(ctx context.Context, auth *app.AuthService, workers int) (int, error) {
	admins, err := auth.LegacyAdmins(ctx)
	if err != nil {
		return 0, fmt.Errorf("list legacy admins: %w", err)
	}
	log.Info().Int("admins", len(admins)).Int("workers", workers).Msg("rehash starting")

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var done, failed atomic.Int64

	for _, a := range admins {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(a domain.Admin) {
			defer wg.Done()
			defer sem.Release(1)

			if err := auth.RehashLegacy(ctx, a); err != nil {
				failed.Add(1)
				log.Warn().Str("username", a.Username).Err(err).Msg("rehash failed")
				return
			}
			done.Add(1)
			log.Info().Str("username", a.Username).Msg("rehash ok")
		}(a)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return int(done.Load()), err
	}
	if n := failed.Load(); n > 0 {
		return int(done.Load()), fmt.Errorf("%d admin(s) could not be rehashed", n)
	}
	return int(done.Load()), nil
}
