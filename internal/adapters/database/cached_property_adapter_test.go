package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/estatehub/internal/adapters/database"
	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/domain/search"
	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

// stubRepository counts store hits so tests can tell cache hits apart from
// pass-throughs.
type stubRepository struct {
	properties map[string]*entities.Property
	getCalls   int
	listCalls  int
}

func (s *stubRepository) Create(ctx context.Context, p *entities.Property) error {
	if p.ID == "" {
		p.ID = "generated"
	}
	s.properties[p.ID] = p
	return nil
}

func (s *stubRepository) GetByID(ctx context.Context, id string) (*entities.Property, error) {
	s.getCalls++
	p, ok := s.properties[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("property not found")
	}
	return p, nil
}

func (s *stubRepository) Update(ctx context.Context, p *entities.Property) error {
	s.properties[p.ID] = p
	return nil
}

func (s *stubRepository) Delete(ctx context.Context, id string) error {
	delete(s.properties, id)
	return nil
}

func (s *stubRepository) List(ctx context.Context, pred search.Predicate, opts repositories.ListOptions) ([]*entities.Property, error) {
	s.listCalls++
	return nil, nil
}

func (s *stubRepository) Count(ctx context.Context, pred search.Predicate) (int, error) {
	return len(s.properties), nil
}

func (s *stubRepository) SampleActive(ctx context.Context, excludeID string, n int) ([]*entities.Property, error) {
	return nil, nil
}

// memoryCache is a map-backed CacheProvider.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("key not found")
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

func newCachedFixture() (*stubRepository, *memoryCache, repositories.PropertyRepository) {
	repo := &stubRepository{properties: map[string]*entities.Property{}}
	mem := newMemoryCache()
	return repo, mem, database.NewCachedPropertyAdapter(repo, mem, 300)
}

func TestCachedPropertyAdapter_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		repo, _, cached := newCachedFixture()
		repo.properties["p-1"] = &entities.Property{ID: "p-1", Title: "Villa"}

		first, err := cached.GetByID(ctx, "p-1")
		require.NoError(t, err)
		second, err := cached.GetByID(ctx, "p-1")
		require.NoError(t, err)

		assert.Equal(t, first.Title, second.Title)
		assert.Equal(t, 1, repo.getCalls)
	})

	t.Run("miss falls through to the store", func(t *testing.T) {
		repo, _, cached := newCachedFixture()

		_, err := cached.GetByID(ctx, "missing")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		assert.Equal(t, 1, repo.getCalls)
	})
}

func TestCachedPropertyAdapter_WritesInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("update invalidates the cached entry", func(t *testing.T) {
		repo, mem, cached := newCachedFixture()
		repo.properties["p-1"] = &entities.Property{ID: "p-1", Title: "Old"}

		_, err := cached.GetByID(ctx, "p-1")
		require.NoError(t, err)
		require.Contains(t, mem.entries, "property:p-1")

		require.NoError(t, cached.Update(ctx, &entities.Property{ID: "p-1", Title: "New"}))
		assert.NotContains(t, mem.entries, "property:p-1")

		fresh, err := cached.GetByID(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, "New", fresh.Title)
	})

	t.Run("delete invalidates the cached entry", func(t *testing.T) {
		repo, mem, cached := newCachedFixture()
		repo.properties["p-1"] = &entities.Property{ID: "p-1"}

		_, err := cached.GetByID(ctx, "p-1")
		require.NoError(t, err)

		require.NoError(t, cached.Delete(ctx, "p-1"))
		assert.NotContains(t, mem.entries, "property:p-1")
	})

	t.Run("create pre-warms the cache", func(t *testing.T) {
		repo, mem, cached := newCachedFixture()

		require.NoError(t, cached.Create(ctx, &entities.Property{ID: "p-9", Title: "Fresh"}))
		assert.Contains(t, mem.entries, "property:p-9")

		_, err := cached.GetByID(ctx, "p-9")
		require.NoError(t, err)
		assert.Equal(t, 0, repo.getCalls)
	})
}

func TestCachedPropertyAdapter_ListBypassesCache(t *testing.T) {
	ctx := context.Background()
	repo, _, cached := newCachedFixture()

	for i := 0; i < 3; i++ {
		_, err := cached.List(ctx, search.Predicate{}, repositories.ListOptions{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, repo.listCalls)
}
