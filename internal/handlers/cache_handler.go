package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"support-navigator/internal/services"
)

// CacheHandler handles HTTP requests for retrieval cache management
type CacheHandler struct {
	retrieval *services.RetrievalService
	logger    *log.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(retrieval *services.RetrievalService, logger *log.Logger) *CacheHandler {
	return &CacheHandler{
		retrieval: retrieval,
		logger:    logger,
	}
}

// Stats handles cache statistics requests
// @Summary Cache statistics
// @Description Report the number of cached retrieval results
// @Tags cache
// @Produce json
// @Success 200 {object} CacheStatsResponse
// @Router /api/v1/cache [get]
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, CacheStatsResponse{
		Entries: h.retrieval.CacheSize(),
	})
}

// Clear handles cache invalidation requests
// @Summary Clear cache
// @Description Remove all cached retrieval results
// @Tags cache
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/cache [delete]
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.retrieval.ClearCache()
	h.logger.Printf("Retrieval cache cleared by %s", r.RemoteAddr)

	h.sendJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Cache cleared",
	})
}

func (h *CacheHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

// Response types

type CacheStatsResponse struct {
	Entries int `json:"entries"`
}
