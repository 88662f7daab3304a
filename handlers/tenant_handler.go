package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upb/model-router/middleware"
	"github.com/upb/model-router/models"
	"github.com/upb/model-router/services/tenants"
	"github.com/upb/model-router/utils"
	"go.uber.org/zap"
)

// SetTenantRequest represents a request to upsert a tenant configuration
type SetTenantRequest struct {
	TenantID          string            `json:"tenant_id" validate:"required"`
	AllowedModelIDs   []string          `json:"allowed_model_ids"`
	MaxCostPerRequest float64           `json:"max_cost_per_request" validate:"gte=0"`
	ChannelOverrides  map[string]string `json:"channel_overrides,omitempty"`
}

// TenantHandler handles tenant configuration HTTP requests
type TenantHandler struct {
	tenants *tenants.Service
	logger  *zap.Logger
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenants *tenants.Service, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenants: tenants,
		logger:  logger,
	}
}

// HandleSet handles PUT /api/v1/tenants
func (h *TenantHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestIDFromContext(r.Context())

	var req SetTenantRequest
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

	cfg := &models.TenantConfiguration{
		TenantID:          req.TenantID,
		AllowedModelIDs:   req.AllowedModelIDs,
		MaxCostPerRequest: req.MaxCostPerRequest,
		ChannelOverrides:  req.ChannelOverrides,
	}

	if err := h.tenants.Set(r.Context(), cfg); err != nil {
		if errors.Is(err, tenants.ErrEmptyTenantID) {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		h.logger.Error("failed to set tenant configuration",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("tenant configuration set",
		zap.String("request_id", requestID),
		zap.String("tenant_id", cfg.TenantID))

	_ = utils.WriteCreated(w, cfg)
}

// HandleGet handles GET /api/v1/tenants/{id}
func (h *TenantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")

	cfg, ok := h.tenants.Get(tenantID)
	if !ok {
		_ = utils.WriteNotFound(w, "Tenant configuration not found")
		return
	}

	_ = utils.WriteOK(w, cfg)
}
