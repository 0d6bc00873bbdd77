package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/providers"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/domain/search"
)

// CachedPropertyAdapter wraps a PropertyRepository with cache-aside reads
// for single listings. List, Count and SampleActive always hit the store:
// search surfaces must never serve stale pages, and random samples are
// ephemeral by definition.
type CachedPropertyAdapter struct {
	adapter repositories.PropertyRepository
	cache   providers.CacheProvider
	ttl     int
}

// NewCachedPropertyAdapter creates a new cached property adapter
func NewCachedPropertyAdapter(adapter repositories.PropertyRepository, cache providers.CacheProvider, ttlSeconds int) repositories.PropertyRepository {
	return &CachedPropertyAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttlSeconds,
	}
}

func propertyCacheKey(id string) string {
	return fmt.Sprintf("property:%s", id)
}

// GetByID retrieves a listing by ID with caching
func (a *CachedPropertyAdapter) GetByID(ctx context.Context, id string) (*entities.Property, error) {
	cacheKey := propertyCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var property entities.Property
		if err := json.Unmarshal(cached, &property); err == nil {
			return &property, nil
		}
		log.Warn().Str("property_id", id).Err(err).Msg("failed to unmarshal cached property")
	}

	property, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(property); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, a.ttl); err != nil {
			log.Warn().Str("property_id", id).Err(err).Msg("failed to cache property")
		}
	}

	return property, nil
}

// Create inserts a listing and pre-warms its cache entry
func (a *CachedPropertyAdapter) Create(ctx context.Context, property *entities.Property) error {
	if err := a.adapter.Create(ctx, property); err != nil {
		return err
	}
	if data, err := json.Marshal(property); err == nil {
		if err := a.cache.Set(ctx, propertyCacheKey(property.ID), data, a.ttl); err != nil {
			log.Warn().Str("property_id", property.ID).Err(err).Msg("failed to cache property")
		}
	}
	return nil
}

// Update rewrites a listing and invalidates its cache entry
func (a *CachedPropertyAdapter) Update(ctx context.Context, property *entities.Property) error {
	if err := a.adapter.Update(ctx, property); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, propertyCacheKey(property.ID)); err != nil {
		log.Warn().Str("property_id", property.ID).Err(err).Msg("failed to invalidate cached property")
	}
	return nil
}

// Delete soft-deletes a listing and invalidates its cache entry
func (a *CachedPropertyAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, propertyCacheKey(id)); err != nil {
		log.Warn().Str("property_id", id).Err(err).Msg("failed to invalidate cached property")
	}
	return nil
}

// List passes through to the store
func (a *CachedPropertyAdapter) List(ctx context.Context, pred search.Predicate, opts repositories.ListOptions) ([]*entities.Property, error) {
	return a.adapter.List(ctx, pred, opts)
}

// Count passes through to the store
func (a *CachedPropertyAdapter) Count(ctx context.Context, pred search.Predicate) (int, error) {
	return a.adapter.Count(ctx, pred)
}

// SampleActive passes through to the store
func (a *CachedPropertyAdapter) SampleActive(ctx context.Context, excludeID string, n int) ([]*entities.Property, error) {
	return a.adapter.SampleActive(ctx, excludeID, n)
}
