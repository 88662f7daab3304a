package handlers

import (
	"net/http"
	"strconv"

	"github.com/upb/model-router/repositories"
	"github.com/upb/model-router/utils"
	"go.uber.org/zap"
)

const (
	defaultDecisionLogLimit = 50
	maxDecisionLogLimit     = 500
)

// DecisionLogHandler exposes recorded routing decisions to operators
type DecisionLogHandler struct {
	repo   repositories.DecisionLogRepository // nil when no database is configured
	logger *zap.Logger
}

// NewDecisionLogHandler creates a new DecisionLogHandler
func NewDecisionLogHandler(repo repositories.DecisionLogRepository, logger *zap.Logger) *DecisionLogHandler {
	return &DecisionLogHandler{
		repo:   repo,
		logger: logger,
	}
}

// HandleListByTenant handles GET /api/v1/decisions?tenant_id=&limit=&offset=
func (h *DecisionLogHandler) HandleListByTenant(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		_ = utils.WriteNotFound(w, "Decision log is not enabled on this deployment")
		return
	}

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		_ = utils.WriteBadRequest(w, "tenant_id query parameter is required", nil)
		return
	}

	limit := queryInt(r, "limit", defaultDecisionLogLimit)
	if limit <= 0 || limit > maxDecisionLogLimit {
		limit = defaultDecisionLogLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.repo.GetByTenantID(r.Context(), tenantID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list decision logs",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, entries)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}
