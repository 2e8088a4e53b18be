package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// VerifiedHelpersKey holds the JSON encoded verified helper candidate set.
	VerifiedHelpersKey = "helpers:verified"
	// GenerationKey is bumped on every invalidation. A store snapshot is only
	// written back if the generation it was read under is still current.
	GenerationKey = "helpers:verified:gen"
)

var errStaleSnapshot = errors.New("helper cache invalidated during store read")

// HelperCache is a cache-aside decorator over a ProfileRepository. Only the
// verified helper list is cached; every write that can change it drops the
// key and bumps the generation. Redis failures are logged and the call falls
// through to the store.
type HelperCache struct {
	repository.ProfileRepository

	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewHelperCache(next repository.ProfileRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *HelperCache {
	return &HelperCache{
		ProfileRepository: next,
		client:            client,
		ttl:               ttl,
		logger:            logger,
	}
}

func (c *HelperCache) ListVerifiedHelpers(ctx context.Context) ([]*domain.Helper, error) {
	data, err := c.client.Get(ctx, VerifiedHelpersKey).Bytes()
	switch {
	case err == nil:
		var helpers []*domain.Helper
		jsonErr := json.Unmarshal(data, &helpers)
		if jsonErr == nil {
			metrics.HelperCacheRequests.WithLabelValues("hit").Inc()
			return helpers, nil
		}
		c.logger.Warn("Discarding undecodable helper cache entry", zap.Error(jsonErr))
		metrics.HelperCacheRequests.WithLabelValues("miss").Inc()
	case errors.Is(err, redis.Nil):
		metrics.HelperCacheRequests.WithLabelValues("miss").Inc()
	default:
		metrics.HelperCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("Helper cache read failed, using store", zap.Error(err))
	}

	// Read before the store so an invalidation racing the store read is seen.
	gen, genErr := c.generation(ctx)

	helpers, err := c.ProfileRepository.ListVerifiedHelpers(ctx)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		c.logger.Warn("Helper cache generation unavailable, skipping write", zap.Error(genErr))
		return helpers, nil
	}
	c.store(ctx, gen, helpers)
	return helpers, nil
}

func (c *HelperCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store writes helpers only while the generation still equals gen. WATCH
// aborts the transaction if an invalidation lands between check and write.
func (c *HelperCache) store(ctx context.Context, gen int64, helpers []*domain.Helper) {
	payload, err := json.Marshal(helpers)
	if err != nil {
		c.logger.Warn("Failed to encode helpers for cache", zap.Error(err))
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, VerifiedHelpersKey, payload, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Helper cache write skipped, list changed during load")
	default:
		c.logger.Warn("Helper cache write failed", zap.Error(err))
	}
}

func (c *HelperCache) UpsertHelperProfile(ctx context.Context, profile *domain.HelperProfile) error {
	if err := c.ProfileRepository.UpsertHelperProfile(ctx, profile); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *HelperCache) SetHelperVerified(ctx context.Context, helperID int, verified bool) error {
	if err := c.ProfileRepository.SetHelperVerified(ctx, helperID, verified); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached verified helper list and bumps the generation
// so in-flight loads do not write their snapshot back.
func (c *HelperCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, VerifiedHelpersKey)
		return nil
	})
	if err != nil {
		c.logger.Warn("Helper cache invalidation failed", zap.Error(err))
	}
}
