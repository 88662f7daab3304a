package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upb/model-router/middleware"
	"github.com/upb/model-router/models"
	"github.com/upb/model-router/services/catalog"
	"github.com/upb/model-router/utils"
	"go.uber.org/zap"
)

// RegisterModelRequest represents a request to register a catalog model
type RegisterModelRequest struct {
	ID             string   `json:"id" validate:"required"`
	Capabilities   []string `json:"capabilities"`
	MaxContextSize int      `json:"max_context_size" validate:"gte=0"`
	CostPerUnit    float64  `json:"cost_per_unit" validate:"gte=0"`
	LatencyTier    string   `json:"latency_tier" validate:"required,oneof=low medium high"`
	QualityTier    string   `json:"quality_tier" validate:"required,oneof=basic good excellent"`
}

// CatalogHandler handles catalog-related HTTP requests
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// HandleRegister handles PUT /api/v1/models
func (h *CatalogHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestIDFromContext(r.Context())

	var req RegisterModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		_ = utils.WriteBadRequest(w, "Validation failed", details)
		return
	}

	model := &models.Model{
		ID:             req.ID,
		Capabilities:   req.Capabilities,
		MaxContextSize: req.MaxContextSize,
		CostPerUnit:    req.CostPerUnit,
		LatencyTier:    models.LatencyTier(req.LatencyTier),
		QualityTier:    models.QualityTier(req.QualityTier),
	}

	if err := h.catalog.Register(r.Context(), model); err != nil {
		if errors.Is(err, catalog.ErrEmptyModelID) {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		h.logger.Error("failed to register model",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("model registered",
		zap.String("request_id", requestID),
		zap.String("model_id", model.ID))

	_ = utils.WriteCreated(w, model)
}

// HandleList handles GET /api/v1/models
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.catalog.List())
}

// HandleGet handles GET /api/v1/models/{id}
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	model, ok := h.catalog.Get(id)
	if !ok {
		_ = utils.WriteNotFound(w, "Model not found")
		return
	}

	_ = utils.WriteOK(w, model)
}
