package models

import (
	"time"

	"github.com/google/uuid"
)

// DecisionLog is one recorded routing decision. The log exists for
// operators; writing it never blocks or fails a routing request.
type DecisionLog struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	TenantID           string     `json:"tenant_id" db:"tenant_id"`
	Channel            string     `json:"channel" db:"channel"`
	TaskType           string     `json:"task_type" db:"task_type"`
	MessageSize        int        `json:"message_size" db:"message_size"`
	Urgency            Urgency    `json:"urgency" db:"urgency"`
	SelectedModelID    string     `json:"selected_model_id" db:"selected_model_id"`
	ReasonCode         ReasonCode `json:"reason_code" db:"reason_code"`
	EstimatedCost      float64    `json:"estimated_cost" db:"estimated_cost"`
	EstimatedLatencyMs int        `json:"estimated_latency_ms" db:"estimated_latency_ms"`
	FallbackModelID    string     `json:"fallback_model_id,omitempty" db:"fallback_model_id"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the DecisionLog model
func (DecisionLog) TableName() string {
	return "decision_logs"
}

// NewDecisionLog builds a log entry from a request and its decision
func NewDecisionLog(req RoutingRequest, decision RoutingDecision) *DecisionLog {
	return &DecisionLog{
		ID:                 uuid.New(),
		TenantID:           req.TenantID,
		Channel:            req.Channel,
		TaskType:           req.TaskType,
		MessageSize:        req.MessageSize,
		Urgency:            req.Urgency,
		SelectedModelID:    decision.SelectedModelID,
		ReasonCode:         decision.ReasonCode,
		EstimatedCost:      decision.EstimatedCost,
		EstimatedLatencyMs: decision.EstimatedLatencyMs,
		FallbackModelID:    decision.FallbackModelID,
		CreatedAt:          time.Now(),
	}
}
