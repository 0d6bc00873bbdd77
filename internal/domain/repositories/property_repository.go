package repositories

import (
	"context"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/search"
)

// SortField orders results by one predicate field.
type SortField struct {
	Field string
	Desc  bool
}

// ListOptions carries sorting and windowing for List. Implementations must
// append a stable identifier tiebreak so pages do not drift for equal sort
// keys.
type ListOptions struct {
	Sort   []SortField
	Limit  int
	Offset int
}

// PropertyRepository defines the persistence operations for listings.
// All read operations exclude soft-deleted rows unconditionally.
type PropertyRepository interface {
	Create(ctx context.Context, property *entities.Property) error
	GetByID(ctx context.Context, id string) (*entities.Property, error)
	Update(ctx context.Context, property *entities.Property) error
	Delete(ctx context.Context, id string) error

	// List returns the rows matching pred within the opts window.
	List(ctx context.Context, pred search.Predicate, opts ListOptions) ([]*entities.Property, error)

	// Count returns the total number of rows matching pred, ignoring
	// pagination.
	Count(ctx context.Context, pred search.Predicate) (int, error)

	// SampleActive returns up to n uniformly random approved listings,
	// excluding excludeID.
	SampleActive(ctx context.Context, excludeID string, n int) ([]*entities.Property, error)
}
