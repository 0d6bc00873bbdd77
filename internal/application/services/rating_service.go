package services

import (
	"math"

	"github.com/estatehub/estatehub/internal/domain/entities"
)

// RatingService derives display ratings from embedded reviews. It never
// writes anything back to the store.
type RatingService struct{}

// NewRatingService creates a new rating service
func NewRatingService() *RatingService {
	return &RatingService{}
}

// Average returns the arithmetic mean of the review ratings rounded to one
// decimal place, or 0 when there are no reviews.
func (s *RatingService) Average(reviews []entities.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0.0
	for _, review := range reviews {
		sum += review.Rating
	}
	avg := sum / float64(len(reviews))
	return math.Round(avg*10) / 10
}

// Decorate sets AvgRating on every record of the result set and returns the
// same slice.
func (s *RatingService) Decorate(properties []*entities.Property) []*entities.Property {
	for _, property := range properties {
		property.AvgRating = s.Average(property.Reviews)
	}
	return properties
}
