package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub/internal/application/services"
	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/search"
	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

// PropertyHandler handles property-related HTTP requests
type PropertyHandler struct {
	listings   *services.ListingService
	similar    *services.SimilarPropertiesService
	properties *services.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(listings *services.ListingService, similar *services.SimilarPropertiesService, properties *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		listings:   listings,
		similar:    similar,
		properties: properties,
	}
}

// ListProperties handles GET /api/properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	pred := search.BuildFilter(params, search.BedroomEquality)

	page, err := h.listings.List(r.Context(), pred, services.ListParams{
		Page:     intParam(params.Get("page"), 1),
		Limit:    intParam(params.Get("limit"), 10),
		SortBy:   params.Get("sortBy"),
		Order:    params.Get("order"),
		FetchAll: params.Get("all") == "true",
	})
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch properties")
		return
	}

	// Full fetches return a bare array; paginated fetches nest the window
	// metadata next to the page.
	var data any = page
	if page.Pagination == nil {
		data = page.Properties
	}
	respondWithSuccess(w, http.StatusOK, "Properties fetched successfully", data)
}

// SearchProperties handles GET /api/properties/search
func (h *PropertyHandler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.listings.Search(r.Context(), r.URL.Query())
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch properties")
		return
	}

	if len(properties) == 0 {
		respondWithSuccess(w, http.StatusOK, "No properties found matching your search.", []*entities.Property{})
		return
	}
	respondWithSuccess(w, http.StatusOK, "Properties fetched successfully", properties)
}

// SimilarProperties handles GET /api/properties/similar-prop/{propertyId}
func (h *PropertyHandler) SimilarProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.similar.Similar(r.Context(), r.PathValue("propertyId"))
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch similar properties")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Similar properties retrieved successfully", properties)
}

// TopProperties handles GET /api/properties/top-properties
func (h *PropertyHandler) TopProperties(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	properties, err := h.listings.Top(r.Context(), intParam(params.Get("limit"), 10), params.Get("sortBy"))
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch top properties")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Top properties fetched successfully", properties)
}

// RecommendedProperties handles GET /api/properties/recommended-properties
func (h *PropertyHandler) RecommendedProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.listings.Recommended(r.Context())
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch recommended properties")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Recommended properties fetched successfully", properties)
}

// NewProperties handles GET /api/properties/new
func (h *PropertyHandler) NewProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.listings.Newest(r.Context(), intParam(r.URL.Query().Get("limit"), 10))
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch new properties")
		return
	}
	respondWithSuccess(w, http.StatusOK, "New properties fetched successfully", properties)
}

// FeaturedProperties handles GET /api/properties/featured
func (h *PropertyHandler) FeaturedProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.listings.Featured(r.Context(), intParam(r.URL.Query().Get("limit"), 10))
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch featured properties")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Featured properties fetched successfully", properties)
}

// SellerProperties handles GET /api/properties/seller/{sellerId}
func (h *PropertyHandler) SellerProperties(w http.ResponseWriter, r *http.Request) {
	sellerID := r.PathValue("sellerId")
	if sellerID == "" {
		respondWithError(w, http.StatusBadRequest, "Seller ID is required", nil)
		return
	}

	properties, err := h.listings.BySeller(r.Context(), sellerID, r.URL.Query())
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch seller properties")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Seller properties fetched successfully", properties)
}

// GetProperty handles GET /api/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := h.properties.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err, "Failed to fetch property")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Property fetched successfully", property)
}

// CreateProperty handles POST /api/properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var property entities.Property
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.properties.Create(r.Context(), &property)
	if err != nil {
		respondWithAppError(w, err, "Failed to create property")
		return
	}
	respondWithSuccess(w, http.StatusCreated, "Property created successfully", created)
}

// UpdateProperty handles PUT /api/properties/{id}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var property entities.Property
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.properties.Update(r.Context(), r.PathValue("id"), &property)
	if err != nil {
		respondWithAppError(w, err, "Failed to update property")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Property updated successfully", updated)
}

// DeleteProperty handles DELETE /api/properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.properties.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, err, "Failed to delete property")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Property deleted successfully", nil)
}

// ApproveProperty handles PUT /api/properties/{id}/approve
func (h *PropertyHandler) ApproveProperty(w http.ResponseWriter, r *http.Request) {
	property, err := h.properties.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err, "Failed to approve property")
		return
	}
	respondWithSuccess(w, http.StatusOK, "Property approved successfully", property)
}

// Helper functions

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	respondWithJSON(w, statusCode, envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string, err error) {
	var detail *string
	if err != nil {
		d := err.Error()
		detail = &d
	}
	respondWithJSON(w, statusCode, envelope{
		Status:  "error",
		Message: message,
		Error:   detail,
	})
}

// respondWithAppError maps typed application errors onto HTTP statuses. A
// single bad request must never take the process down, so anything
// unclassified degrades to a plain 500.
func respondWithAppError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Msg("unclassified error")
		respondWithError(w, http.StatusInternalServerError, fallback, nil)
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message, nil)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message, nil)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message, nil)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message, nil)
	case apperrors.ErrorTypeCancelled:
		respondWithError(w, http.StatusGatewayTimeout, fallback, appErr.Err)
	case apperrors.ErrorTypeUnavailable:
		log.Error().Err(appErr).Msg("store unavailable")
		respondWithError(w, http.StatusServiceUnavailable, fallback, appErr.Err)
	default:
		log.Error().Err(appErr).Msg("internal error")
		respondWithError(w, http.StatusInternalServerError, fallback, nil)
	}
}
