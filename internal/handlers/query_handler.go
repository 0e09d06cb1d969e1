package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"support-navigator/internal/models"
	"support-navigator/internal/services"
)

// QueryHandler handles HTTP requests for the query pipeline
type QueryHandler struct {
	composer *services.ResponseComposer
	validate *validator.Validate
	logger   *log.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(composer *services.ResponseComposer, logger *log.Logger) *QueryHandler {
	return &QueryHandler{
		composer: composer,
		validate: validator.New(),
		logger:   logger,
	}
}

// Ask handles question requests
// @Summary Ask a question
// @Description Answer a natural-language question about regional support services, with citations and crisis safety information
// @Tags query
// @Accept json
// @Produce json
// @Param query body models.QueryRequest true "Query request"
// @Success 200 {object} models.ResponseEnvelope
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/query [post]
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	h.logger.Printf("Query request from %s", r.RemoteAddr)

	var reqBody models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.logger.Printf("Failed to decode request: %v", err)
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&reqBody); err != nil {
		h.logger.Printf("Request validation failed: %v", err)
		h.sendError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	query := models.Query{
		Text:      reqBody.Text,
		Audience:  models.Audience(reqBody.Audience),
		SessionID: reqBody.SessionID,
	}

	envelope, err := h.composer.ProcessQuery(r.Context(), query, reqBody.UseCache)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			h.sendError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		h.logger.Printf("Query processing failed: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to process query")
		return
	}

	h.sendJSON(w, http.StatusOK, envelope)
}

// Helper methods

func (h *QueryHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *QueryHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request"
	}

	// Report the first failing field; one problem at a time is enough
	// for a two-field request.
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return "Field '" + fe.Field() + "' is required"
	case "max":
		return "Field '" + fe.Field() + "' exceeds maximum length of " + fe.Param()
	case "oneof":
		return "Field '" + fe.Field() + "' must be one of: " + fe.Param()
	default:
		return "Field '" + fe.Field() + "' is invalid"
	}
}
