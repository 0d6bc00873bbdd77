package routes

import (
	"net/http"

	"github.com/estatehub/estatehub/internal/api/handlers"
	"github.com/estatehub/estatehub/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	propertyHandler *handlers.PropertyHandler
}

// NewRouter creates a new router
func NewRouter(propertyHandler *handlers.PropertyHandler) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		propertyHandler: propertyHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Property discovery endpoints. Literal segments must be registered
	// before the {id} wildcard so /search and friends do not get swallowed
	// by the detail route.
	r.mux.HandleFunc("GET /api/properties", r.propertyHandler.ListProperties)
	r.mux.HandleFunc("GET /api/properties/search", r.propertyHandler.SearchProperties)
	r.mux.HandleFunc("GET /api/properties/similar-prop/{propertyId}", r.propertyHandler.SimilarProperties)
	r.mux.HandleFunc("GET /api/properties/top-properties", r.propertyHandler.TopProperties)
	r.mux.HandleFunc("GET /api/properties/recommended-properties", r.propertyHandler.RecommendedProperties)
	r.mux.HandleFunc("GET /api/properties/new", r.propertyHandler.NewProperties)
	r.mux.HandleFunc("GET /api/properties/featured", r.propertyHandler.FeaturedProperties)
	r.mux.HandleFunc("GET /api/properties/seller/{sellerId}", r.propertyHandler.SellerProperties)
	r.mux.HandleFunc("GET /api/properties/{id}", r.propertyHandler.GetProperty)

	// Property management endpoints
	r.mux.HandleFunc("POST /api/properties", r.propertyHandler.CreateProperty)
	r.mux.HandleFunc("PUT /api/properties/{id}", r.propertyHandler.UpdateProperty)
	r.mux.HandleFunc("DELETE /api/properties/{id}", r.propertyHandler.DeleteProperty)
	r.mux.HandleFunc("PUT /api/properties/{id}/approve", r.propertyHandler.ApproveProperty)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS wraps everything so headers are set even on error responses.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
