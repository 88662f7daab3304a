package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatencyTierRank(t *testing.T) {
	assert.Equal(t, 0, LatencyLow.Rank())
	assert.Equal(t, 1, LatencyMedium.Rank())
	assert.Equal(t, 2, LatencyHigh.Rank())
	assert.Equal(t, 3, LatencyTier("ultra").Rank())
}

func TestLatencyTierEstimateMs(t *testing.T) {
	assert.Equal(t, 100, LatencyLow.EstimateMs())
	assert.Equal(t, 500, LatencyMedium.EstimateMs())
	assert.Equal(t, 2000, LatencyHigh.EstimateMs())
	assert.Equal(t, DefaultLatencyMs, LatencyTier("").EstimateMs())
}

func TestQualityTierRank(t *testing.T) {
	assert.Equal(t, 0, QualityExcellent.Rank())
	assert.Equal(t, 1, QualityGood.Rank())
	assert.Equal(t, 2, QualityBasic.Rank())
	assert.Equal(t, 3, QualityTier("legendary").Rank())
}

func TestModelHasCapability(t *testing.T) {
	m := &Model{Capabilities: []string{"chat", "summarization"}}

	assert.True(t, m.HasCapability("chat"))
	assert.False(t, m.HasCapability("vision"))
	assert.False(t, (&Model{}).HasCapability("chat"))
}

func TestTenantConfigurationAllows(t *testing.T) {
	cfg := &TenantConfiguration{AllowedModelIDs: []string{"model-a", "model-b"}}

	assert.True(t, cfg.Allows("model-a"))
	assert.False(t, cfg.Allows("model-c"))
	assert.False(t, (&TenantConfiguration{}).Allows("model-a"))
}

func TestTenantConfigurationOverrideFor(t *testing.T) {
	cfg := &TenantConfiguration{
		AllowedModelIDs: []string{"model-a"},
		ChannelOverrides: map[string]string{
			"sms":  "model-a",
			"chat": "model-b",
		},
	}

	id, ok := cfg.OverrideFor("sms")
	assert.True(t, ok)
	assert.Equal(t, "model-a", id)

	// pinned model not in allow-list
	_, ok = cfg.OverrideFor("chat")
	assert.False(t, ok)

	_, ok = cfg.OverrideFor("email")
	assert.False(t, ok)
}
