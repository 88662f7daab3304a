package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/upb/model-router/middleware"
	"github.com/upb/model-router/models"
	"github.com/upb/model-router/services/audit"
	"github.com/upb/model-router/services/routing"
	"github.com/upb/model-router/utils"
	"go.uber.org/zap"
)

// RoutingHandler handles routing-related HTTP requests
type RoutingHandler struct {
	engine      *routing.Service
	decisionLog *audit.Service // nil when no database is configured
	logger      *zap.Logger
}

// NewRoutingHandler creates a new RoutingHandler
func NewRoutingHandler(engine *routing.Service, decisionLog *audit.Service, logger *zap.Logger) *RoutingHandler {
	return &RoutingHandler{
		engine:      engine,
		decisionLog: decisionLog,
		logger:      logger,
	}
}

// HandleRoute handles POST /api/v1/route
func (h *RoutingHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestIDFromContext(r.Context())

	var req models.RoutingRequest
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

	if req.Urgency == "" {
		req.Urgency = models.UrgencyNormal
	}

	decision := h.engine.Route(req)

	if h.decisionLog != nil {
		h.decisionLog.Record(req, decision)
	}

	h.logger.Debug("request routed",
		zap.String("request_id", requestID),
		zap.String("tenant_id", req.TenantID),
		zap.String("selected_model_id", decision.SelectedModelID),
		zap.String("reason_code", string(decision.ReasonCode)))

	_ = utils.WriteOK(w, decision)
}

// RecommendationResponse represents a model recommendation
type RecommendationResponse struct {
	ModelID string `json:"model_id"`
}

// HandleRecommend handles GET /api/v1/recommendations
func (h *RoutingHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	taskType := r.URL.Query().Get("task_type")
	quality := r.URL.Query().Get("quality")
	if taskType == "" || quality == "" {
		_ = utils.WriteBadRequest(w, "task_type and quality query parameters are required", nil)
		return
	}

	modelID, ok := h.engine.Recommend(taskType, models.QualityTier(quality))
	if !ok {
		_ = utils.WriteNotFound(w, "No model matches the requested task type and quality")
		return
	}

	_ = utils.WriteOK(w, RecommendationResponse{ModelID: modelID})
}
