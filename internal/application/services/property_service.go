package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

// PropertyService handles the write side of the property collection. Writes
// are serialized by the store's per-row atomicity; this service adds no
// locking of its own.
type PropertyService struct {
	repo repositories.PropertyRepository
}

// NewPropertyService creates a new property service
func NewPropertyService(repo repositories.PropertyRepository) *PropertyService {
	return &PropertyService{repo: repo}
}

// Get retrieves a single listing by ID.
func (s *PropertyService) Get(ctx context.Context, id string) (*entities.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError("invalid property id")
	}
	return s.repo.GetByID(ctx, id)
}

// Create submits a new listing. Submissions always enter moderation as
// pending regardless of what the caller supplied.
func (s *PropertyService) Create(ctx context.Context, property *entities.Property) (*entities.Property, error) {
	if err := validateProperty(property); err != nil {
		return nil, err
	}

	property.Status = entities.StatusPending
	if err := s.repo.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// Update rewrites a listing's mutable fields.
func (s *PropertyService) Update(ctx context.Context, id string, property *entities.Property) (*entities.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError("invalid property id")
	}
	if err := validateProperty(property); err != nil {
		return nil, err
	}

	property.ID = id
	if err := s.repo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// Delete soft-deletes a listing.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid property id")
	}
	return s.repo.Delete(ctx, id)
}

// Approve moves a pending listing onto the public surfaces.
func (s *PropertyService) Approve(ctx context.Context, id string) (*entities.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError("invalid property id")
	}

	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	property.Status = entities.StatusApproved
	if err := s.repo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func validateProperty(property *entities.Property) error {
	switch {
	case property.Title == "":
		return apperrors.NewValidationError("title is required")
	case property.PropertyType == "":
		return apperrors.NewValidationError("propertyType is required")
	case property.Purpose != entities.PurposeSale && property.Purpose != entities.PurposeRent:
		return apperrors.NewValidationError("purpose must be sale or rent")
	case property.Price < 0:
		return apperrors.NewValidationError("price must be non-negative")
	case property.Location.Country == "" || property.Location.City == "" || property.Location.Address == "":
		return apperrors.NewValidationError("location country, city and address are required")
	case property.OwnerID == "":
		return apperrors.NewValidationError("owner is required")
	}
	return nil
}
