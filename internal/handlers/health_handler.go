package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"support-navigator/internal/db"
	"support-navigator/internal/repositories"
	"support-navigator/internal/services"
)

// HealthHandler reports liveness and collaborator reachability
type HealthHandler struct {
	embedClient services.EmbeddingClientInterface
	genClient   services.GenerationClientInterface
	vectorRepo  repositories.VectorRepository
	redisClient *db.RedisClient
	logger      *log.Logger
}

// NewHealthHandler creates a new health handler. Any collaborator may be
// nil; nil collaborators are reported as unconfigured rather than down.
func NewHealthHandler(
	embedClient services.EmbeddingClientInterface,
	genClient services.GenerationClientInterface,
	vectorRepo repositories.VectorRepository,
	redisClient *db.RedisClient,
	logger *log.Logger,
) *HealthHandler {
	return &HealthHandler{
		embedClient: embedClient,
		genClient:   genClient,
		vectorRepo:  vectorRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

// Detailed handles system health requests
// @Summary System health
// @Description Report the reachability of the embedding service, generation service, vector store, and Redis
// @Tags general
// @Produce json
// @Success 200 {object} SystemHealthResponse
// @Failure 503 {object} SystemHealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{}
	healthy := true

	check := func(name string, err error) {
		if err != nil {
			h.logger.Printf("Health check failed for %s: %v", name, err)
			checks[name] = "unavailable: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	if h.embedClient != nil {
		check("embedding", h.embedClient.HealthCheck(ctx))
	} else {
		checks["embedding"] = "unconfigured"
	}

	if h.genClient != nil {
		check("generation", h.genClient.HealthCheck(ctx))
	} else {
		checks["generation"] = "unconfigured"
	}

	if h.vectorRepo != nil {
		check("vector_store", h.vectorRepo.Ping(ctx))
	} else {
		checks["vector_store"] = "unconfigured"
	}

	if h.redisClient != nil {
		check("redis", h.redisClient.Ping(ctx))
	} else {
		checks["redis"] = "unconfigured"
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		// The pipeline degrades per stage, so a down collaborator means
		// degraded service, not an outage.
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(SystemHealthResponse{
		Status: status,
		Checks: checks,
	}); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

// Generation handles generation backend health requests
// @Summary Generation backend health
// @Description Report the reachability of the generation service
// @Tags general
// @Produce json
// @Success 200 {object} ServiceHealthResponse
// @Failure 503 {object} ServiceHealthResponse
// @Router /api/v1/llm/health [get]
func (h *HealthHandler) Generation(w http.ResponseWriter, r *http.Request) {
	if h.genClient == nil {
		h.sendServiceHealth(w, "generation", "unconfigured", http.StatusServiceUnavailable)
		return
	}
	if err := h.genClient.HealthCheck(r.Context()); err != nil {
		h.logger.Printf("Health check failed for generation: %v", err)
		h.sendServiceHealth(w, "generation", "unavailable", http.StatusServiceUnavailable)
		return
	}
	h.sendServiceHealth(w, "generation", "ok", http.StatusOK)
}

// Retrieval handles retrieval path health requests. The path is healthy
// only when both the embedding service and the vector store respond.
// @Summary Retrieval path health
// @Description Report the reachability of the embedding service and vector store
// @Tags general
// @Produce json
// @Success 200 {object} ServiceHealthResponse
// @Failure 503 {object} ServiceHealthResponse
// @Router /api/v1/search/health [get]
func (h *HealthHandler) Retrieval(w http.ResponseWriter, r *http.Request) {
	if h.embedClient == nil || h.vectorRepo == nil {
		h.sendServiceHealth(w, "retrieval", "unconfigured", http.StatusServiceUnavailable)
		return
	}
	if err := h.embedClient.HealthCheck(r.Context()); err != nil {
		h.logger.Printf("Health check failed for embedding: %v", err)
		h.sendServiceHealth(w, "retrieval", "unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := h.vectorRepo.Ping(r.Context()); err != nil {
		h.logger.Printf("Health check failed for vector store: %v", err)
		h.sendServiceHealth(w, "retrieval", "unavailable", http.StatusServiceUnavailable)
		return
	}
	h.sendServiceHealth(w, "retrieval", "ok", http.StatusOK)
}

func (h *HealthHandler) sendServiceHealth(w http.ResponseWriter, service, status string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ServiceHealthResponse{
		Service: service,
		Status:  status,
	}); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

// Response types

type ServiceHealthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

type SystemHealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
