package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/domain/search"
	"github.com/estatehub/estatehub/internal/infrastructure/clients/postgres"
	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

const propertiesTable = "properties"

var propertySelectColumns = []any{
	"id", "title", "description", "property_type", "purpose", "price",
	"status", "featured", "total_area", "total_bedrooms", "total_bathrooms",
	"total_garages", "total_kitchens", "country", "city", "address",
	"latitude", "longitude", "amenities", "thumbnail", "slider_images",
	"owner_id", "reviews", "created_at", "updated_at",
}

// PropertyAdapter implements PropertyRepository on PostgreSQL
type PropertyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPropertyAdapter creates a new property adapter
func NewPropertyAdapter(client *postgres.Client) repositories.PropertyRepository {
	return &PropertyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new listing. New listings always enter moderation as
// pending; timestamps are assigned here, at the store boundary.
func (a *PropertyAdapter) Create(ctx context.Context, property *entities.Property) error {
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	if property.Status == "" {
		property.Status = entities.StatusPending
	}
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	reviews, err := json.Marshal(property.Reviews)
	if err != nil {
		return apperrors.NewInternalError("failed to encode reviews", err)
	}

	record := goqu.Record{
		"id":              property.ID,
		"title":           property.Title,
		"description":     property.Description,
		"property_type":   property.PropertyType,
		"purpose":         string(property.Purpose),
		"price":           property.Price,
		"status":          string(property.Status),
		"featured":        property.Featured,
		"total_area":      property.TotalArea,
		"total_bedrooms":  property.TotalBedrooms,
		"total_bathrooms": property.TotalBathrooms,
		"total_garages":   property.TotalGarages,
		"total_kitchens":  property.TotalKitchens,
		"country":         property.Location.Country,
		"city":            property.Location.City,
		"address":         property.Location.Address,
		"latitude":        property.Location.Latitude,
		"longitude":       property.Location.Longitude,
		"amenities":       pq.Array(property.Amenities),
		"thumbnail":       property.Thumbnail,
		"slider_images":   pq.Array(property.SliderImages),
		"owner_id":        property.OwnerID,
		"reviews":         reviews,
		"created_at":      property.CreatedAt,
		"updated_at":      property.UpdatedAt,
	}

	query, args, err := a.db.Insert(propertiesTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.FromStore("failed to create property", err)
	}

	return nil
}

// GetByID retrieves a listing by ID. Soft-deleted listings are treated as
// absent.
func (a *PropertyAdapter) GetByID(ctx context.Context, id string) (*entities.Property, error) {
	query, args, err := a.db.Select(propertySelectColumns...).
		From(propertiesTable).
		Where(goqu.Ex{"id": id}, excludeDeleted()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	property, err := a.scanProperty(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("property with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.FromStore("failed to get property", err)
	}

	return property, nil
}

// Update rewrites the mutable columns of a listing
func (a *PropertyAdapter) Update(ctx context.Context, property *entities.Property) error {
	property.UpdatedAt = time.Now().UTC()

	reviews, err := json.Marshal(property.Reviews)
	if err != nil {
		return apperrors.NewInternalError("failed to encode reviews", err)
	}

	record := goqu.Record{
		"title":           property.Title,
		"description":     property.Description,
		"property_type":   property.PropertyType,
		"purpose":         string(property.Purpose),
		"price":           property.Price,
		"status":          string(property.Status),
		"featured":        property.Featured,
		"total_area":      property.TotalArea,
		"total_bedrooms":  property.TotalBedrooms,
		"total_bathrooms": property.TotalBathrooms,
		"total_garages":   property.TotalGarages,
		"total_kitchens":  property.TotalKitchens,
		"country":         property.Location.Country,
		"city":            property.Location.City,
		"address":         property.Location.Address,
		"latitude":        property.Location.Latitude,
		"longitude":       property.Location.Longitude,
		"amenities":       pq.Array(property.Amenities),
		"thumbnail":       property.Thumbnail,
		"slider_images":   pq.Array(property.SliderImages),
		"reviews":         reviews,
		"updated_at":      property.UpdatedAt,
	}

	query, args, err := a.db.Update(propertiesTable).
		Set(record).
		Where(goqu.Ex{"id": property.ID}, excludeDeleted()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.FromStore("failed to update property", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("property with id %s not found", property.ID))
	}

	return nil
}

// Delete soft-deletes a listing. The row stays in place; the status
// transition makes it invisible to every query surface.
func (a *PropertyAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update(propertiesTable).
		Set(goqu.Record{
			"status":     string(entities.StatusDeleted),
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}, excludeDeleted()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.FromStore("failed to delete property", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("property with id %s not found", id))
	}

	return nil
}

// List returns the rows matching pred within the opts window
func (a *PropertyAdapter) List(ctx context.Context, pred search.Predicate, opts repositories.ListOptions) ([]*entities.Property, error) {
	where, err := translatePredicate(pred)
	if err != nil {
		return nil, err
	}
	order, err := translateSort(opts.Sort)
	if err != nil {
		return nil, err
	}

	ds := a.db.Select(propertySelectColumns...).
		From(propertiesTable).
		Where(where...).
		Order(order...)

	if opts.Limit > 0 {
		ds = ds.Limit(uint(opts.Limit))
	}
	if opts.Offset > 0 {
		ds = ds.Offset(uint(opts.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryProperties(ctx, query, args...)
}

// Count returns the total number of rows matching pred
func (a *PropertyAdapter) Count(ctx context.Context, pred search.Predicate) (int, error) {
	where, err := translatePredicate(pred)
	if err != nil {
		return 0, err
	}

	query, args, err := a.db.Select(goqu.COUNT("*")).
		From(propertiesTable).
		Where(where...).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.FromStore("failed to count properties", err)
	}

	return total, nil
}

// SampleActive returns up to n uniformly random approved listings, excluding
// excludeID. Used only by the similar-properties fallback.
func (a *PropertyAdapter) SampleActive(ctx context.Context, excludeID string, n int) ([]*entities.Property, error) {
	query, args, err := a.db.Select(propertySelectColumns...).
		From(propertiesTable).
		Where(
			goqu.I("id").Neq(excludeID),
			goqu.I("status").Eq(string(entities.StatusApproved)),
		).
		Order(goqu.L("RANDOM()").Asc()).
		Limit(uint(n)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build sample query", err)
	}

	return a.queryProperties(ctx, query, args...)
}

func (a *PropertyAdapter) queryProperties(ctx context.Context, query string, args ...any) ([]*entities.Property, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.FromStore("failed to query properties", err)
	}
	defer rows.Close()

	properties := []*entities.Property{}
	for rows.Next() {
		property, err := a.scanProperty(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan property", err)
		}
		properties = append(properties, property)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.FromStore("error iterating properties", err)
	}

	return properties, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (a *PropertyAdapter) scanProperty(row rowScanner) (*entities.Property, error) {
	property := &entities.Property{}
	var reviews []byte

	err := row.Scan(
		&property.ID,
		&property.Title,
		&property.Description,
		&property.PropertyType,
		&property.Purpose,
		&property.Price,
		&property.Status,
		&property.Featured,
		&property.TotalArea,
		&property.TotalBedrooms,
		&property.TotalBathrooms,
		&property.TotalGarages,
		&property.TotalKitchens,
		&property.Location.Country,
		&property.Location.City,
		&property.Location.Address,
		&property.Location.Latitude,
		&property.Location.Longitude,
		pq.Array(&property.Amenities),
		&property.Thumbnail,
		pq.Array(&property.SliderImages),
		&property.OwnerID,
		&reviews,
		&property.CreatedAt,
		&property.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &property.Reviews); err != nil {
			return nil, fmt.Errorf("failed to decode reviews for property %s: %w", property.ID, err)
		}
	}

	return property, nil
}
