package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/domain/search"
	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

const (
	// minSimilarResults is the target count; an attempt that reaches it
	// terminates the relaxation early.
	minSimilarResults = 3

	// maxSimilarResults caps each relaxation attempt.
	maxSimilarResults = 5
)

// relaxationState enumerates the search-strategy states. This loop is not a
// fault-tolerance retry: a store error in any state aborts the whole
// operation instead of advancing.
type relaxationState int

const (
	stateTight relaxationState = iota
	statePriceRelaxed
	stateStructureRelaxed
)

// SimilarPropertiesService finds comparable active listings for a reference
// property, relaxing the criteria in bounded steps and falling back to a
// random sample when relaxation cannot produce enough results.
type SimilarPropertiesService struct {
	repo    repositories.PropertyRepository
	ratings *RatingService
}

// NewSimilarPropertiesService creates a new similar-properties service
func NewSimilarPropertiesService(repo repositories.PropertyRepository, ratings *RatingService) *SimilarPropertiesService {
	return &SimilarPropertiesService{
		repo:    repo,
		ratings: ratings,
	}
}

// Similar resolves comparable listings for the given property ID.
//
// The states run Tight -> PriceRelaxed -> StructureRelaxed; each state's
// result set replaces the previous one, and the loop exits as soon as a
// state yields at least minSimilarResults. If all states fall short, the
// partial results are discarded in favor of a uniform random sample of
// active listings. A short or empty result is a valid outcome, never an
// error; only a malformed or unknown reference ID fails.
func (s *SimilarPropertiesService) Similar(ctx context.Context, propertyID string) ([]*entities.Property, error) {
	if _, err := uuid.Parse(propertyID); err != nil {
		return nil, apperrors.NewValidationError("invalid property id")
	}

	reference, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	opts := repositories.ListOptions{
		Sort:  []repositories.SortField{{Field: search.FieldPrice, Desc: false}},
		Limit: maxSimilarResults,
	}

	for state := stateTight; state <= stateStructureRelaxed; state++ {
		results, err := s.repo.List(ctx, similarPredicate(reference, state), opts)
		if err != nil {
			return nil, err
		}
		if len(results) >= minSimilarResults {
			return s.ratings.Decorate(results), nil
		}
	}

	sample, err := s.repo.SampleActive(ctx, reference.ID, minSimilarResults)
	if err != nil {
		return nil, err
	}
	return s.ratings.Decorate(sample), nil
}

// similarPredicate builds the comparison criteria for one relaxation state:
// a price band around the reference price (±10% tight, ±20% relaxed),
// bedroom/bathroom counts within ±1 floored at 1 (dropped entirely in the
// structure-relaxed state), and exact location, type and purpose matches.
// The reference itself is always excluded.
func similarPredicate(reference *entities.Property, state relaxationState) search.Predicate {
	band := 0.10
	if state != stateTight {
		band = 0.20
	}
	priceMin := reference.Price * (1 - band)
	priceMax := reference.Price * (1 + band)

	pred := search.Predicate{}.
		With(search.Not{Field: search.FieldID, Value: reference.ID}).
		With(search.Range{Field: search.FieldPrice, Min: &priceMin, Max: &priceMax}).
		With(search.Equals{Field: search.FieldCountry, Value: reference.Location.Country}).
		With(search.Equals{Field: search.FieldCity, Value: reference.Location.City}).
		With(search.Equals{Field: search.FieldPropertyType, Value: reference.PropertyType}).
		With(search.Equals{Field: search.FieldPurpose, Value: string(reference.Purpose)}).
		With(search.Equals{Field: search.FieldStatus, Value: string(entities.StatusApproved)})

	if state != stateStructureRelaxed {
		pred = pred.
			With(countBand(search.FieldBedrooms, reference.TotalBedrooms)).
			With(countBand(search.FieldBathrooms, reference.TotalBathrooms))
	}

	return pred
}

func countBand(field string, count int) search.Range {
	min := float64(count - 1)
	if min < 1 {
		min = 1
	}
	max := float64(count + 1)
	return search.Range{Field: field, Min: &min, Max: &max}
}
