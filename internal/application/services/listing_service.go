package services

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/providers"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/domain/search"
)

const (
	defaultPageSize = 10

	// fetchAllCap bounds unpaginated listings.
	fetchAllCap = 10000

	// searchResultCap bounds the quick-search endpoint.
	searchResultCap = 50

	// topScanWindow is how many approved listings are examined when ranking
	// by average rating, which has to happen in-process after decoration.
	topScanWindow = 100

	recommendedLimit    = 10
	recommendedCacheKey = "properties:recommended"
)

// ListParams carries sorting and pagination inputs for List.
type ListParams struct {
	Page     int
	Limit    int
	SortBy   string
	Order    string
	FetchAll bool
}

// Pagination describes the window a page was cut from.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// ListingPage is one page of listings. Pagination is nil when the caller
// requested the whole result set.
type ListingPage struct {
	Properties []*entities.Property `json:"properties"`
	Pagination *Pagination          `json:"pagination,omitempty"`
}

// externalSortFields maps the sortBy vocabulary of the HTTP surface to
// predicate fields. Unknown values fall back to creation time.
var externalSortFields = map[string]string{
	"createdAt": search.FieldCreatedAt,
	"price":     search.FieldPrice,
	"title":     search.FieldTitle,
}

// ListingService executes predicates against the property collection with
// sorting and pagination. It holds no state beyond its collaborators and
// issues only read queries.
type ListingService struct {
	repo           repositories.PropertyRepository
	ratings        *RatingService
	cache          providers.CacheProvider
	recommendedTTL int
}

// NewListingService creates a new listing service. cache may be nil, in
// which case recommended listings are computed on every request.
func NewListingService(repo repositories.PropertyRepository, ratings *RatingService, cache providers.CacheProvider, recommendedTTL int) *ListingService {
	return &ListingService{
		repo:           repo,
		ratings:        ratings,
		cache:          cache,
		recommendedTTL: recommendedTTL,
	}
}

// List executes pred with sorting and pagination. The total always counts
// the whole predicate, not the page; FetchAll bypasses pagination up to
// a fixed cap and omits pagination metadata.
func (s *ListingService) List(ctx context.Context, pred search.Predicate, params ListParams) (*ListingPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	sortBy := sortField(params.SortBy)
	opts := repositories.ListOptions{
		Sort: []repositories.SortField{{Field: sortBy, Desc: params.Order == "desc"}},
	}

	if params.FetchAll {
		opts.Limit = fetchAllCap
		properties, err := s.repo.List(ctx, pred, opts)
		if err != nil {
			return nil, err
		}
		return &ListingPage{Properties: properties}, nil
	}

	opts.Limit = limit
	opts.Offset = (page - 1) * limit

	properties, err := s.repo.List(ctx, pred, opts)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, pred)
	if err != nil {
		return nil, err
	}

	return &ListingPage{
		Properties: properties,
		Pagination: &Pagination{
			Total: total,
			Page:  page,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
			Limit: limit,
		},
	}, nil
}

// Search is the quick-search surface: bedrooms/bathrooms act as minimums,
// results come newest first, capped at 50.
func (s *ListingService) Search(ctx context.Context, params url.Values) ([]*entities.Property, error) {
	pred := search.BuildFilter(params, search.BedroomAtLeast)
	return s.repo.List(ctx, pred, repositories.ListOptions{
		Sort:  []repositories.SortField{{Field: search.FieldCreatedAt, Desc: true}},
		Limit: searchResultCap,
	})
}

// Top returns the highest-ranked approved listings. sortBy accepts
// "featured" (default: featured first, then newest), "price", "createdAt"
// and "rating"; rating ranks on the decorated average.
func (s *ListingService) Top(ctx context.Context, limit int, sortBy string) ([]*entities.Property, error) {
	if limit < 1 {
		limit = recommendedLimit
	}

	pred := approvedOnly()

	switch sortBy {
	case "price":
		return s.listDecorated(ctx, pred, repositories.ListOptions{
			Sort:  []repositories.SortField{{Field: search.FieldPrice, Desc: true}},
			Limit: limit,
		})
	case "createdAt":
		return s.listDecorated(ctx, pred, repositories.ListOptions{
			Sort:  []repositories.SortField{{Field: search.FieldCreatedAt, Desc: true}},
			Limit: limit,
		})
	case "rating":
		window := topScanWindow
		if limit > window {
			window = limit
		}
		properties, err := s.listDecorated(ctx, pred, repositories.ListOptions{
			Sort:  []repositories.SortField{{Field: search.FieldCreatedAt, Desc: true}},
			Limit: window,
		})
		if err != nil {
			return nil, err
		}
		sort.SliceStable(properties, func(i, j int) bool {
			return properties[i].AvgRating > properties[j].AvgRating
		})
		if len(properties) > limit {
			properties = properties[:limit]
		}
		return properties, nil
	default:
		return s.listDecorated(ctx, pred, repositories.ListOptions{
			Sort: []repositories.SortField{
				{Field: search.FieldFeatured, Desc: true},
				{Field: search.FieldCreatedAt, Desc: true},
			},
			Limit: limit,
		})
	}
}

// Recommended returns the newest featured approved listings, decorated and
// cached for a short interval.
func (s *ListingService) Recommended(ctx context.Context) ([]*entities.Property, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, recommendedCacheKey); err == nil {
			var properties []*entities.Property
			if err := json.Unmarshal(cached, &properties); err != nil {
				log.Warn().Err(err).Msg("failed to unmarshal cached recommended properties")
			} else {
				return properties, nil
			}
		}
	}

	pred := approvedOnly().With(search.Equals{Field: search.FieldFeatured, Value: true})
	properties, err := s.listDecorated(ctx, pred, repositories.ListOptions{
		Sort:  []repositories.SortField{{Field: search.FieldCreatedAt, Desc: true}},
		Limit: recommendedLimit,
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(properties); err == nil {
			if err := s.cache.Set(ctx, recommendedCacheKey, data, s.recommendedTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache recommended properties")
			}
		}
	}

	return properties, nil
}

// Newest returns the most recently created listings.
func (s *ListingService) Newest(ctx context.Context, limit int) ([]*entities.Property, error) {
	if limit < 1 {
		limit = recommendedLimit
	}
	return s.listDecorated(ctx, search.Predicate{}, repositories.ListOptions{
		Sort:  []repositories.SortField{{Field: search.FieldCreatedAt, Desc: true}},
		Limit: limit,
	})
}

// Featured returns featured listings, newest first.
func (s *ListingService) Featured(ctx context.Context, limit int) ([]*entities.Property, error) {
	if limit < 1 {
		limit = recommendedLimit
	}
	pred := search.Predicate{}.With(search.Equals{Field: search.FieldFeatured, Value: true})
	return s.listDecorated(ctx, pred, repositories.ListOptions{
		Sort:  []repositories.SortField{{Field: search.FieldCreatedAt, Desc: true}},
		Limit: limit,
	})
}

// BySeller returns a seller's listings filtered by the usual query
// parameters, newest first.
func (s *ListingService) BySeller(ctx context.Context, sellerID string, params url.Values) ([]*entities.Property, error) {
	pred := search.BuildFilter(params, search.BedroomEquality).
		With(search.Equals{Field: search.FieldOwner, Value: sellerID})
	return s.listDecorated(ctx, pred, repositories.ListOptions{
		Sort: []repositories.SortField{{Field: search.FieldCreatedAt, Desc: true}},
	})
}

func (s *ListingService) listDecorated(ctx context.Context, pred search.Predicate, opts repositories.ListOptions) ([]*entities.Property, error) {
	properties, err := s.repo.List(ctx, pred, opts)
	if err != nil {
		return nil, err
	}
	return s.ratings.Decorate(properties), nil
}

func approvedOnly() search.Predicate {
	return search.Predicate{}.With(search.Equals{
		Field: search.FieldStatus,
		Value: string(entities.StatusApproved),
	})
}

func sortField(external string) string {
	if field, ok := externalSortFields[external]; ok {
		return field
	}
	return search.FieldCreatedAt
}
