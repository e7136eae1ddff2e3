// Package leaderboard keeps the read-optimized leaderboard cache coherent
// with the durable match log: it derives which cached aggregates a match
// batch invalidates and evicts them before the batch is written.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"example.com/br-admin/internal/game"
	"example.com/br-admin/internal/metrics"
)

var ErrCacheEviction = errors.New("cache eviction failed")

// Cache is the external cache store.
type Cache interface {
	Evict(ctx context.Context, key string) error
	EvictAll(ctx context.Context) error
}

// Coordinator evicts the cache keys a match batch makes stale.
type Coordinator struct {
	cache Cache
	log   *slog.Logger
	met   *metrics.Metrics
}

func NewCoordinator(cache Cache, log *slog.Logger, met *metrics.Metrics) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{cache: cache, log: log, met: met}
}

// KeysForBatch derives the cache keys affected by a batch: one per-mode
// leaderboard key per distinct (region, teamMode) pair and one profile
// key per distinct logged-in user. Deterministic in batch order.
func KeysForBatch(batch []game.MatchResult) []string {
	var keys []string
	seen := make(map[string]struct{})

	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for _, row := range batch {
		add(fmt.Sprintf("leaderboard:%s:%s", row.Region, row.TeamMode))
		if row.UserID != "" {
			add("profile:" + row.UserID)
		}
	}
	return keys
}

// InvalidateForMatches evicts every key derived from batch.
//
// Runs before the durable write: a transient cache miss self-heals by
// recomputing from the log, a stale hit would silently serve wrong data.
// Eviction failures are logged and never abort the caller; the keys are
// retried implicitly the next time a batch touches them. Evicting an
// absent key is a no-op, so the whole operation is idempotent.
func (c *Coordinator) InvalidateForMatches(ctx context.Context, batch []game.MatchResult) {
	for _, key := range KeysForBatch(batch) {
		if err := c.cache.Evict(ctx, key); err != nil {
			c.met.CacheEvictionFailures.Inc()
			c.log.Warn("leaderboard cache eviction failed", "key", key, "error", err)
			continue
		}
		c.met.CacheEvictions.Inc()
	}
}

// Admin is the operational escape hatch around the cache store.
type Admin struct {
	cache Cache
}

func NewAdmin(cache Cache) *Admin {
	return &Admin{cache: cache}
}

// FlushAll evicts every entry from the cache store. Unlike batch
// invalidation this failure is surfaced: the eviction is the whole point
// of the call.
func (a *Admin) FlushAll(ctx context.Context) error {
	if err := a.cache.EvictAll(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheEviction, err)
	}
	return nil
}
