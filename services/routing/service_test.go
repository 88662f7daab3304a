package routing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/model-router/models"
	"github.com/upb/model-router/services/catalog"
	"github.com/upb/model-router/services/costing"
	"github.com/upb/model-router/services/tenants"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) (*Service, *catalog.Service, *tenants.Service) {
	t.Helper()
	logger := zap.NewNop()
	cat := catalog.NewService(nil, logger)
	store := tenants.NewService(nil, logger)
	estimator := costing.NewService(cat)
	engine := NewService(DefaultConfig(), cat, store, estimator, logger)
	return engine, cat, store
}

func registerModel(t *testing.T, cat *catalog.Service, id string, caps []string, cost float64, latency models.LatencyTier, quality models.QualityTier) {
	t.Helper()
	err := cat.Register(context.Background(), &models.Model{
		ID:             id,
		Capabilities:   caps,
		MaxContextSize: 8192,
		CostPerUnit:    cost,
		LatencyTier:    latency,
		QualityTier:    quality,
	})
	require.NoError(t, err)
}

func setTenant(t *testing.T, store *tenants.Service, cfg *models.TenantConfiguration) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), cfg))
}

func TestRoute_UnknownTenant(t *testing.T) {
	engine, cat, _ := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0.00003, models.LatencyLow, models.QualityGood)

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "nobody",
		Channel:     "chat",
		TaskType:    "chat",
		MessageSize: 500,
		Urgency:     models.UrgencyNormal,
	})

	assert.Equal(t, "baseline-free", decision.SelectedModelID)
	assert.Equal(t, models.ReasonDefaultUnknownTenant, decision.ReasonCode)
	assert.Zero(t, decision.EstimatedCost)
	assert.Equal(t, models.DefaultLatencyMs, decision.EstimatedLatencyMs)
	assert.Equal(t, "baseline-pro", decision.FallbackModelID)
}

func TestRoute_EmptyAllowList(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0, models.LatencyLow, models.QualityGood)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{},
		MaxCostPerRequest: 1,
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID: "acme",
		Channel:  "chat",
		TaskType: "chat",
		Urgency:  models.UrgencyNormal,
	})

	assert.Equal(t, "baseline-free", decision.SelectedModelID)
	assert.Equal(t, models.ReasonNoCapableModel, decision.ReasonCode)
	assert.GreaterOrEqual(t, decision.EstimatedCost, 0.0)
	assert.Greater(t, decision.EstimatedLatencyMs, 0)
}

func TestRoute_NoCapableModel_FallsBackToFirstAllowed(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0, models.LatencyLow, models.QualityGood)
	registerModel(t, cat, "model-b", []string{"chat"}, 0.00002, models.LatencyMedium, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-b", "model-a"},
		MaxCostPerRequest: 1,
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "chat",
		TaskType:    "summarization",
		MessageSize: 100,
		Urgency:     models.UrgencyNormal,
	})

	assert.Equal(t, "model-b", decision.SelectedModelID)
	assert.Equal(t, models.ReasonNoCapableModel, decision.ReasonCode)
	assert.Greater(t, decision.EstimatedLatencyMs, 0)
}

func TestRoute_ChannelOverride(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0, models.LatencyLow, models.QualityGood)
	registerModel(t, cat, "model-b", []string{"chat"}, 0.00006, models.LatencyMedium, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-a", "model-b"},
		MaxCostPerRequest: 1,
		ChannelOverrides:  map[string]string{"voice": "model-a"},
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "voice",
		TaskType:    "chat",
		MessageSize: 200,
		Urgency:     models.UrgencyNormal,
	})

	// Ranking would prefer model-b (excellent); the pin wins.
	assert.Equal(t, "model-a", decision.SelectedModelID)
	assert.Equal(t, models.ReasonChannelOverride, decision.ReasonCode)
}

func TestRoute_ChannelOverrideIgnoredWhenNotAllowed(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0, models.LatencyLow, models.QualityGood)
	registerModel(t, cat, "model-b", []string{"chat"}, 0.00006, models.LatencyMedium, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-a", "model-b"},
		MaxCostPerRequest: 1,
		ChannelOverrides:  map[string]string{"voice": "model-z"},
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "voice",
		TaskType:    "chat",
		MessageSize: 200,
		Urgency:     models.UrgencyNormal,
	})

	// The pinned model is not in the allow-list: standard ranking runs.
	assert.Equal(t, "model-b", decision.SelectedModelID)
	assert.Equal(t, models.ReasonBestMatch, decision.ReasonCode)
}

func TestRoute_OverrideSkipsBudgetCheck(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-b", []string{"chat"}, 0.01, models.LatencyMedium, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-b"},
		MaxCostPerRequest: 0,
		ChannelOverrides:  map[string]string{"voice": "model-b"},
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "voice",
		TaskType:    "chat",
		MessageSize: 100,
		Urgency:     models.UrgencyNormal,
	})

	assert.Equal(t, "model-b", decision.SelectedModelID)
	assert.Equal(t, models.ReasonChannelOverride, decision.ReasonCode)
	assert.Greater(t, decision.EstimatedCost, 0.0)
}

func TestRoute_HighUrgencyPicksLowestLatency(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "slow-excellent", []string{"chat"}, 0.00001, models.LatencyHigh, models.QualityExcellent)
	registerModel(t, cat, "fast-basic", []string{"chat"}, 0.00005, models.LatencyLow, models.QualityBasic)
	registerModel(t, cat, "medium-good", []string{"chat"}, 0.00002, models.LatencyMedium, models.QualityGood)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"slow-excellent", "fast-basic", "medium-good"},
		MaxCostPerRequest: 1,
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "chat",
		TaskType:    "chat",
		MessageSize: 100,
		Urgency:     models.UrgencyHigh,
	})

	assert.Equal(t, "fast-basic", decision.SelectedModelID)
	assert.Equal(t, models.ReasonBestMatch, decision.ReasonCode)
	assert.Equal(t, 100, decision.EstimatedLatencyMs)
	assert.Equal(t, "medium-good", decision.FallbackModelID)
}

func TestRoute_QualityWinsBeforeCost(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0, models.LatencyLow, models.QualityGood)
	registerModel(t, cat, "model-b", []string{"chat"}, 0.00006, models.LatencyMedium, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-a", "model-b"},
		MaxCostPerRequest: 1,
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "chat",
		TaskType:    "chat",
		MessageSize: 100,
		Urgency:     models.UrgencyNormal,
	})

	assert.Equal(t, "model-b", decision.SelectedModelID)
	assert.Equal(t, models.ReasonBestMatch, decision.ReasonCode)
	assert.Equal(t, "model-a", decision.FallbackModelID)
	assert.InDelta(t, 300*0.00006, decision.EstimatedCost, 1e-12)
}

func TestRoute_BudgetDowngrade(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0, models.LatencyLow, models.QualityGood)
	registerModel(t, cat, "model-b", []string{"chat"}, 0.00006, models.LatencyMedium, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-a", "model-b"},
		MaxCostPerRequest: 0.00001,
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "chat",
		TaskType:    "chat",
		MessageSize: 100,
		Urgency:     models.UrgencyNormal,
	})

	assert.Equal(t, "model-a", decision.SelectedModelID)
	assert.Equal(t, models.ReasonBudgetDowngrade, decision.ReasonCode)
	assert.Equal(t, "model-b", decision.FallbackModelID)
	assert.LessOrEqual(t, decision.EstimatedCost, 0.00001)
}

func TestRoute_ZeroBudgetSelectsZeroCostModel(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "free-model", []string{"chat"}, 0, models.LatencyMedium, models.QualityBasic)
	registerModel(t, cat, "paid-model", []string{"chat"}, 0.0001, models.LatencyLow, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"free-model", "paid-model"},
		MaxCostPerRequest: 0,
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "chat",
		TaskType:    "chat",
		MessageSize: 100,
		Urgency:     models.UrgencyNormal,
	})

	assert.Equal(t, "free-model", decision.SelectedModelID)
	assert.Equal(t, models.ReasonBudgetDowngrade, decision.ReasonCode)
	assert.Zero(t, decision.EstimatedCost)
}

func TestRoute_NoAffordableCandidateKeepsTopChoice(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0.0001, models.LatencyLow, models.QualityGood)
	registerModel(t, cat, "model-b", []string{"chat"}, 0.0002, models.LatencyMedium, models.QualityExcellent)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-a", "model-b"},
		MaxCostPerRequest: 0.000001,
	})

	decision := engine.Route(models.RoutingRequest{
		TenantID:    "acme",
		Channel:     "chat",
		TaskType:    "chat",
		MessageSize: 100,
		Urgency:     models.UrgencyNormal,
	})

	// Nothing fits the budget: the ranked winner stands unchanged.
	assert.Equal(t, "model-b", decision.SelectedModelID)
	assert.Equal(t, models.ReasonBestMatch, decision.ReasonCode)
	assert.Equal(t, "model-a", decision.FallbackModelID)
}

func TestRoute_TieBreakPreservesRegistrationOrder(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "first", []string{"chat"}, 0.00002, models.LatencyMedium, models.QualityGood)
	registerModel(t, cat, "second", []string{"chat"}, 0.00002, models.LatencyMedium, models.QualityGood)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"second", "first"},
		MaxCostPerRequest: 1,
	})

	for i := 0; i < 10; i++ {
		decision := engine.Route(models.RoutingRequest{
			TenantID:    "acme",
			Channel:     "chat",
			TaskType:    "chat",
			MessageSize: 100,
			Urgency:     models.UrgencyNormal,
		})
		assert.Equal(t, "first", decision.SelectedModelID)
		assert.Equal(t, "second", decision.FallbackModelID)
	}
}

func TestRoute_EstimatesAlwaysNonNegative(t *testing.T) {
	engine, cat, store := newTestEngine(t)
	registerModel(t, cat, "model-a", []string{"chat"}, 0.00003, models.LatencyLow, models.QualityGood)
	setTenant(t, store, &models.TenantConfiguration{
		TenantID:          "acme",
		AllowedModelIDs:   []string{"model-a"},
		MaxCostPerRequest: 1,
	})

	requests := []models.RoutingRequest{
		{TenantID: "acme", Channel: "chat", TaskType: "chat", MessageSize: 0, Urgency: models.UrgencyNormal},
		{TenantID: "acme", Channel: "chat", TaskType: "chat", MessageSize: 100000, Urgency: models.UrgencyHigh},
		{TenantID: "acme", Channel: "chat", TaskType: "unknown-task", MessageSize: 50, Urgency: models.UrgencyLow},
		{TenantID: "ghost", Channel: "chat", TaskType: "chat", MessageSize: 50, Urgency: models.UrgencyNormal},
	}

	for _, req := range requests {
		decision := engine.Route(req)
		assert.GreaterOrEqual(t, decision.EstimatedCost, 0.0)
		assert.Greater(t, decision.EstimatedLatencyMs, 0)
		assert.NotEmpty(t, decision.SelectedModelID)
	}
}

func TestRecommend(t *testing.T) {
	engine, cat, _ := newTestEngine(t)
	registerModel(t, cat, "pricey-excellent", []string{"chat"}, 0.0005, models.LatencyLow, models.QualityExcellent)
	registerModel(t, cat, "cheap-excellent", []string{"chat"}, 0.0001, models.LatencyMedium, models.QualityExcellent)
	registerModel(t, cat, "cheap-basic", []string{"chat"}, 0.00001, models.LatencyLow, models.QualityBasic)

	tests := []struct {
		name     string
		taskType string
		quality  models.QualityTier
		wantID   string
		wantOK   bool
	}{
		{"cheapest matching quality", "chat", models.QualityExcellent, "cheap-excellent", true},
		{"basic tier", "chat", models.QualityBasic, "cheap-basic", true},
		{"no capability match", "summarization", models.QualityExcellent, "", false},
		{"no quality match", "chat", models.QualityGood, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := engine.Recommend(tt.taskType, tt.quality)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func BenchmarkRoute(b *testing.B) {
	logger := zap.NewNop()
	cat := catalog.NewService(nil, logger)
	store := tenants.NewService(nil, logger)
	engine := NewService(DefaultConfig(), cat, store, costing.NewService(cat), logger)

	ctx := context.Background()
	var allowed []string
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("model-%d", i)
		allowed = append(allowed, id)
		_ = cat.Register(ctx, &models.Model{
			ID:           id,
			Capabilities: []string{"chat", "summarization"},
			CostPerUnit:  float64(i) * 0.00001,
			LatencyTier:  models.LatencyMedium,
			QualityTier:  models.QualityGood,
		})
	}
	_ = store.Set(ctx, &models.TenantConfiguration{
		TenantID:          "bench",
		AllowedModelIDs:   allowed,
		MaxCostPerRequest: 1,
	})

	req := models.RoutingRequest{
		TenantID:    "bench",
		Channel:     "chat",
		TaskType:    "chat",
		MessageSize: 500,
		Urgency:     models.UrgencyNormal,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Route(req)
	}
}
