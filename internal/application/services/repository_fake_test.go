package services_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/domain/search"
	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

// fakeRepo is an in-memory PropertyRepository that evaluates predicates the
// way the SQL translation does: clauses AND'd, soft-deleted rows invisible,
// identifier tiebreak on sorting.
type fakeRepo struct {
	properties []*entities.Property

	// failWith, when set, makes every store operation fail with it.
	// failListWith only fails the query surfaces, leaving GetByID intact.
	failWith     error
	failListWith error

	listCalls   int
	countCalls  int
	sampleCalls int
}

func (f *fakeRepo) add(properties ...*entities.Property) {
	f.properties = append(f.properties, properties...)
}

func (f *fakeRepo) Create(ctx context.Context, p *entities.Property) error {
	if f.failWith != nil {
		return f.failWith
	}
	if p.ID == "" {
		p.ID = "generated"
	}
	if p.Status == "" {
		p.Status = entities.StatusPending
	}
	f.properties = append(f.properties, p)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*entities.Property, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, p := range f.properties {
		if p.ID == id && p.Status != entities.StatusDeleted {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("property not found")
}

func (f *fakeRepo) Update(ctx context.Context, p *entities.Property) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i, existing := range f.properties {
		if existing.ID == p.ID && existing.Status != entities.StatusDeleted {
			f.properties[i] = p
			return nil
		}
	}
	return apperrors.NewNotFoundError("property not found")
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, p := range f.properties {
		if p.ID == id && p.Status != entities.StatusDeleted {
			p.Status = entities.StatusDeleted
			return nil
		}
	}
	return apperrors.NewNotFoundError("property not found")
}

func (f *fakeRepo) List(ctx context.Context, pred search.Predicate, opts repositories.ListOptions) ([]*entities.Property, error) {
	f.listCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.failListWith != nil {
		return nil, f.failListWith
	}

	matched := f.filter(pred)
	sortProperties(matched, opts.Sort)

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []*entities.Property{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (f *fakeRepo) Count(ctx context.Context, pred search.Predicate) (int, error) {
	f.countCalls++
	if f.failWith != nil {
		return 0, f.failWith
	}
	return len(f.filter(pred)), nil
}

func (f *fakeRepo) SampleActive(ctx context.Context, excludeID string, n int) ([]*entities.Property, error) {
	f.sampleCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}

	sample := []*entities.Property{}
	for _, p := range f.properties {
		if p.ID == excludeID || p.Status != entities.StatusApproved {
			continue
		}
		sample = append(sample, p)
		if len(sample) == n {
			break
		}
	}
	return sample, nil
}

func (f *fakeRepo) filter(pred search.Predicate) []*entities.Property {
	matched := []*entities.Property{}
	for _, p := range f.properties {
		if p.Status == entities.StatusDeleted {
			continue
		}
		if matches(p, pred) {
			// Copy so decoration in one surface does not leak into another.
			c := *p
			matched = append(matched, &c)
		}
	}
	return matched
}

func matches(p *entities.Property, pred search.Predicate) bool {
	for _, clause := range pred.Clauses {
		switch c := clause.(type) {
		case search.Range:
			v, ok := numericField(p, c.Field)
			if !ok {
				return false
			}
			if c.Min != nil && v < *c.Min {
				return false
			}
			if c.Max != nil && v > *c.Max {
				return false
			}
		case search.Equals:
			if !equalsField(p, c.Field, c.Value) {
				return false
			}
		case search.AtLeast:
			v, ok := numericField(p, c.Field)
			if !ok || v < c.Value {
				return false
			}
		case search.Substring:
			found := false
			for _, field := range c.Fields {
				if strings.Contains(strings.ToLower(stringField(p, field)), strings.ToLower(c.Term)) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case search.In:
			v := stringField(p, c.Field)
			found := false
			for _, candidate := range c.Values {
				if v == candidate {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case search.Not:
			if equalsField(p, c.Field, c.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func numericField(p *entities.Property, field string) (float64, bool) {
	switch field {
	case search.FieldPrice:
		return p.Price, true
	case search.FieldBedrooms:
		return float64(p.TotalBedrooms), true
	case search.FieldBathrooms:
		return float64(p.TotalBathrooms), true
	default:
		return 0, false
	}
}

func stringField(p *entities.Property, field string) string {
	switch field {
	case search.FieldID:
		return p.ID
	case search.FieldTitle:
		return p.Title
	case search.FieldDescription:
		return p.Description
	case search.FieldPropertyType:
		return p.PropertyType
	case search.FieldPurpose:
		return string(p.Purpose)
	case search.FieldStatus:
		return string(p.Status)
	case search.FieldAddress:
		return p.Location.Address
	case search.FieldCity:
		return p.Location.City
	case search.FieldCountry:
		return p.Location.Country
	case search.FieldOwner:
		return p.OwnerID
	default:
		return ""
	}
}

func equalsField(p *entities.Property, field string, value any) bool {
	if field == search.FieldFeatured {
		b, ok := value.(bool)
		return ok && p.Featured == b
	}
	if v, ok := numericField(p, field); ok {
		switch n := value.(type) {
		case int:
			return v == float64(n)
		case float64:
			return v == n
		default:
			return false
		}
	}
	s, ok := value.(string)
	return ok && stringField(p, field) == s
}

func sortProperties(properties []*entities.Property, fields []repositories.SortField) {
	sort.SliceStable(properties, func(i, j int) bool {
		a, b := properties[i], properties[j]
		for _, s := range fields {
			cmp := compareField(a, b, s.Field)
			if cmp == 0 {
				continue
			}
			if s.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return a.ID < b.ID
	})
}

func compareField(a, b *entities.Property, field string) int {
	switch field {
	case search.FieldCreatedAt:
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case search.FieldFeatured:
		return compareBools(a.Featured, b.Featured)
	case search.FieldPrice, search.FieldBedrooms, search.FieldBathrooms:
		av, _ := numericField(a, field)
		bv, _ := numericField(b, field)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		return strings.Compare(stringField(a, field), stringField(b, field))
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case !a && b:
		return -1
	case a && !b:
		return 1
	}
	return 0
}

// memoryCache is a map-backed CacheProvider for the caching surfaces.
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
