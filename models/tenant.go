package models

import "time"

// TenantConfiguration holds per-tenant routing entitlements.
// Written by the administrative surface; the routing engine only reads it.
type TenantConfiguration struct {
	TenantID string `json:"tenant_id" db:"tenant_id"`

	// AllowedModelIDs is the ordered allow-list of catalog model ids the
	// tenant may use. Empty is legal: the tenant has no usable models yet.
	AllowedModelIDs []string `json:"allowed_model_ids" db:"allowed_model_ids"`

	// MaxCostPerRequest is the per-request budget. Zero means the tenant
	// may only resolve to zero-cost models.
	MaxCostPerRequest float64 `json:"max_cost_per_request" db:"max_cost_per_request"`

	// ChannelOverrides pins a model id per inbound channel. An override
	// is honored only when the pinned model is in AllowedModelIDs.
	ChannelOverrides map[string]string `json:"channel_overrides,omitempty" db:"channel_overrides"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the TenantConfiguration model
func (TenantConfiguration) TableName() string {
	return "tenant_configurations"
}

// Allows reports whether the model id is in the tenant's allow-list
func (c *TenantConfiguration) Allows(modelID string) bool {
	for _, id := range c.AllowedModelIDs {
		if id == modelID {
			return true
		}
	}
	return false
}

// OverrideFor returns the pinned model id for a channel, if the pin
// exists and the model is allowed.
func (c *TenantConfiguration) OverrideFor(channel string) (string, bool) {
	modelID, ok := c.ChannelOverrides[channel]
	if !ok || !c.Allows(modelID) {
		return "", false
	}
	return modelID, true
}
