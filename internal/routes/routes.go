package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"support-navigator/internal/handlers"
)

// Handlers holds everything RegisterRoutes needs to wire the router.
// Struct handlers may be nil when their backing services are unavailable;
// their routes are simply not registered.
type Handlers struct {
	Health http.HandlerFunc
	Home   http.HandlerFunc

	QueryHandler    *handlers.QueryHandler
	ResourceHandler *handlers.ResourceHandler
	HealthHandler   *handlers.HealthHandler
	CacheHandler    *handlers.CacheHandler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers) {
	// Liveness and home
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	if h.QueryHandler != nil {
		api.HandleFunc("/query", h.QueryHandler.Ask).Methods(http.MethodPost, http.MethodOptions)
	}

	if h.ResourceHandler != nil {
		api.HandleFunc("/resources", h.ResourceHandler.List).Methods(http.MethodGet)
	}

	if h.HealthHandler != nil {
		api.HandleFunc("/health", h.HealthHandler.Detailed).Methods(http.MethodGet)
		api.HandleFunc("/llm/health", h.HealthHandler.Generation).Methods(http.MethodGet)
		api.HandleFunc("/search/health", h.HealthHandler.Retrieval).Methods(http.MethodGet)
	}

	if h.CacheHandler != nil {
		api.HandleFunc("/cache", h.CacheHandler.Stats).Methods(http.MethodGet)
		api.HandleFunc("/cache", h.CacheHandler.Clear).Methods(http.MethodDelete)
	}
}
