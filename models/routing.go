package models

// Urgency expresses how latency-sensitive a request is
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// ReasonCode explains why the engine picked a model. Error-like
// conditions are encoded here rather than returned as errors; routing
// never fails a request.
type ReasonCode string

const (
	// ReasonDefaultUnknownTenant is returned for tenants without configuration
	ReasonDefaultUnknownTenant ReasonCode = "DEFAULT_UNKNOWN_TENANT"

	// ReasonChannelOverride means an administrative per-channel pin applied
	ReasonChannelOverride ReasonCode = "CHANNEL_OVERRIDE"

	// ReasonNoCapableModel means no allowed model advertises the task type
	ReasonNoCapableModel ReasonCode = "NO_CAPABLE_MODEL"

	// ReasonBestMatch is the normal ranked selection
	ReasonBestMatch ReasonCode = "BEST_MATCH"

	// ReasonBudgetDowngrade means the top candidate exceeded the tenant
	// budget and a cheaper candidate replaced it
	ReasonBudgetDowngrade ReasonCode = "BUDGET_DOWNGRADE"
)

// RoutingRequest describes one inbound message to be routed
type RoutingRequest struct {
	TenantID    string  `json:"tenant_id" validate:"required"`
	Channel     string  `json:"channel" validate:"required"`
	TaskType    string  `json:"task_type" validate:"required"`
	MessageSize int     `json:"message_size" validate:"gte=0"`
	Urgency     Urgency `json:"urgency" validate:"omitempty,oneof=low normal high"`
	Language    string  `json:"language,omitempty"`
}

// RoutingDecision is the engine's output: which model handles the
// request, why, and at what estimated cost and latency.
type RoutingDecision struct {
	SelectedModelID    string     `json:"selected_model_id"`
	ReasonCode         ReasonCode `json:"reason_code"`
	EstimatedCost      float64    `json:"estimated_cost"`
	EstimatedLatencyMs int        `json:"estimated_latency_ms"`

	// FallbackModelID is a runner-up, or the pre-downgrade choice when
	// the budget scan replaced the top candidate.
	FallbackModelID string `json:"fallback_model_id,omitempty"`
}
