package routing

import (
	"sort"

	"github.com/upb/model-router/models"
	"go.uber.org/zap"
)

// Catalog is the read-side of the model catalog the engine consumes
type Catalog interface {
	Get(id string) (*models.Model, bool)
	List() []*models.Model
}

// TenantStore is the read-side of the tenant configuration store
type TenantStore interface {
	Get(tenantID string) (*models.TenantConfiguration, bool)
}

// CostEstimator estimates the cost of running a request on a model
type CostEstimator interface {
	Estimate(modelID string, inputUnits, outputUnits int) float64
}

// Config holds the engine's fixed fallback model ids
type Config struct {
	// BaselineFreeModelID is the zero-cost default returned for unknown
	// tenants and tenants with no usable models.
	BaselineFreeModelID string

	// BaselinePaidModelID is the paid runner-up recorded alongside the
	// unknown-tenant default.
	BaselinePaidModelID string
}

// DefaultConfig returns the standard baseline ids
func DefaultConfig() Config {
	return Config{
		BaselineFreeModelID: "baseline-free",
		BaselinePaidModelID: "baseline-pro",
	}
}

// Service is the routing engine. Route is deterministic given the
// catalog and tenant store snapshots, performs no I/O, never blocks,
// and never fails: every anomaly degrades to a defined fallback with
// the cause encoded in the decision's reason code. It is safe for
// concurrent use without internal locking.
type Service struct {
	catalog   Catalog
	tenants   TenantStore
	estimator CostEstimator
	config    Config
	logger    *zap.Logger
}

// NewService creates a new routing engine
func NewService(config Config, catalog Catalog, tenants TenantStore, estimator CostEstimator, logger *zap.Logger) *Service {
	return &Service{
		catalog:   catalog,
		tenants:   tenants,
		estimator: estimator,
		config:    config,
		logger:    logger,
	}
}

// outputUnits assumes the response is twice the size of the input
func outputUnits(messageSize int) int {
	return messageSize * 2
}

// Route selects the model that should handle the request.
//
// Selection order: unknown-tenant default, per-channel administrative
// override, capability-filtered ranking over the tenant allow-list,
// then a budget downgrade scan. Overrides skip the budget check; an
// override is an explicit administrative choice.
func (s *Service) Route(req models.RoutingRequest) models.RoutingDecision {
	tenantCfg, ok := s.tenants.Get(req.TenantID)
	if !ok {
		// Unknown tenant: fixed zero-cost default, catalog not consulted.
		return models.RoutingDecision{
			SelectedModelID:    s.config.BaselineFreeModelID,
			ReasonCode:         models.ReasonDefaultUnknownTenant,
			EstimatedCost:      0,
			EstimatedLatencyMs: models.DefaultLatencyMs,
			FallbackModelID:    s.config.BaselinePaidModelID,
		}
	}

	if modelID, ok := tenantCfg.OverrideFor(req.Channel); ok {
		return s.decide(req, modelID, models.ReasonChannelOverride, "")
	}

	candidates := s.candidates(tenantCfg, req.TaskType)
	if len(candidates) == 0 {
		fallbackID := s.config.BaselineFreeModelID
		if len(tenantCfg.AllowedModelIDs) > 0 {
			fallbackID = tenantCfg.AllowedModelIDs[0]
		}
		return s.decide(req, fallbackID, models.ReasonNoCapableModel, "")
	}

	s.rank(candidates, req.Urgency)

	selected := candidates[0]
	decision := s.decide(req, selected.ID, models.ReasonBestMatch, "")
	if len(candidates) > 1 {
		decision.FallbackModelID = candidates[1].ID
	}

	if decision.EstimatedCost > tenantCfg.MaxCostPerRequest {
		// Walk the ranked list for the first candidate within budget. When
		// nothing fits, the over-budget top candidate stands unchanged.
		for _, candidate := range candidates {
			cost := s.estimator.Estimate(candidate.ID, req.MessageSize, outputUnits(req.MessageSize))
			if cost <= tenantCfg.MaxCostPerRequest {
				downgraded := s.decide(req, candidate.ID, models.ReasonBudgetDowngrade, selected.ID)
				s.logger.Debug("budget downgrade",
					zap.String("tenant_id", req.TenantID),
					zap.String("from", selected.ID),
					zap.String("to", candidate.ID))
				return downgraded
			}
		}
	}

	return decision
}

// candidates intersects the tenant allow-list with catalog models that
// advertise the task type, preserving catalog registration order so
// ranking tie-breaks stay deterministic.
func (s *Service) candidates(tenantCfg *models.TenantConfiguration, taskType string) []*models.Model {
	var out []*models.Model
	for _, model := range s.catalog.List() {
		if tenantCfg.Allows(model.ID) && model.HasCapability(taskType) {
			out = append(out, model)
		}
	}
	return out
}

// rank orders candidates in place. High urgency ranks by latency tier;
// everything else ranks by quality tier, cheapest first on ties.
func (s *Service) rank(candidates []*models.Model, urgency models.Urgency) {
	if urgency == models.UrgencyHigh {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].LatencyTier.Rank() < candidates[j].LatencyTier.Rank()
		})
		return
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		qi, qj := candidates[i].QualityTier.Rank(), candidates[j].QualityTier.Rank()
		if qi != qj {
			return qi < qj
		}
		return candidates[i].CostPerUnit < candidates[j].CostPerUnit
	})
}

// decide builds the decision for a chosen model id, estimating cost
// from the message size and latency from the model's tier. Models
// missing from the catalog estimate to zero cost and the conservative
// default latency.
func (s *Service) decide(req models.RoutingRequest, modelID string, reason models.ReasonCode, fallbackID string) models.RoutingDecision {
	latencyMs := models.DefaultLatencyMs
	if model, ok := s.catalog.Get(modelID); ok {
		latencyMs = model.LatencyTier.EstimateMs()
	}

	return models.RoutingDecision{
		SelectedModelID:    modelID,
		ReasonCode:         reason,
		EstimatedCost:      s.estimator.Estimate(modelID, req.MessageSize, outputUnits(req.MessageSize)),
		EstimatedLatencyMs: latencyMs,
		FallbackModelID:    fallbackID,
	}
}

// Recommend returns the cheapest catalog model matching both the task
// type and quality tier, ignoring tenant state. Intended for
// administrative what-if queries, not the request hot path.
func (s *Service) Recommend(taskType string, quality models.QualityTier) (string, bool) {
	var best *models.Model
	for _, model := range s.catalog.List() {
		if !model.HasCapability(taskType) || model.QualityTier != quality {
			continue
		}
		if best == nil || model.CostPerUnit < best.CostPerUnit {
			best = model
		}
	}

	if best == nil {
		return "", false
	}
	return best.ID, true
}
