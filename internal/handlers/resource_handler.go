package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"support-navigator/internal/models"
	"support-navigator/internal/repositories"
)

// ResourceHandler handles HTTP requests for the crisis resource directory
type ResourceHandler struct {
	resources repositories.ResourceRepository
	fallback  []models.CrisisResource
	logger    *log.Logger
}

// NewResourceHandler creates a new resource handler. The fallback list is
// served when the directory backend is unavailable.
func NewResourceHandler(resources repositories.ResourceRepository, fallback []models.CrisisResource, logger *log.Logger) *ResourceHandler {
	return &ResourceHandler{
		resources: resources,
		fallback:  fallback,
		logger:    logger,
	}
}

// List handles resource directory requests
// @Summary List crisis resources
// @Description List the crisis resource directory in priority order
// @Tags resources
// @Produce json
// @Param severity query string false "Filter by crisis severity" Enums(moderate, high, critical)
// @Success 200 {object} ResourceListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/resources [get]
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	severity, err := parseSeverityParam(r.URL.Query().Get("severity"))
	if err != nil {
		h.sendJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid severity",
			Message: err.Error(),
			Status:  http.StatusBadRequest,
		})
		return
	}

	resources := h.fallback
	if h.resources != nil {
		stored, listErr := h.listStored(r.Context(), severity)
		if listErr != nil {
			h.logger.Printf("Resource directory unavailable, serving built-in defaults: %v", listErr)
		} else if len(stored) > 0 {
			resources = stored
		}
	}

	h.sendJSON(w, http.StatusOK, ResourceListResponse{
		Resources: resources,
		Total:     len(resources),
	})
}

func (h *ResourceHandler) listStored(ctx context.Context, severity models.Severity) ([]models.CrisisResource, error) {
	if severity != "" {
		return h.resources.ResourcesForSeverity(ctx, severity)
	}
	return h.resources.List(ctx)
}

// parseSeverityParam accepts an empty string (no filter) or a detected
// crisis tier. "none" is rejected: an empty filter result would be
// indistinguishable from an unfiltered empty directory.
func parseSeverityParam(raw string) (models.Severity, error) {
	switch models.Severity(raw) {
	case "":
		return "", nil
	case models.SeverityModerate, models.SeverityHigh, models.SeverityCritical:
		return models.Severity(raw), nil
	default:
		return "", fmt.Errorf("severity must be one of moderate, high, critical")
	}
}

func (h *ResourceHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

// Response types

type ResourceListResponse struct {
	Resources []models.CrisisResource `json:"resources"`
	Total     int                     `json:"total"`
}
