package models

import "time"

// LatencyTier classifies how fast a model typically responds
type LatencyTier string

const (
	LatencyLow    LatencyTier = "low"
	LatencyMedium LatencyTier = "medium"
	LatencyHigh   LatencyTier = "high"
)

// latencyRanks orders tiers fastest-first for ranking
var latencyRanks = map[LatencyTier]int{
	LatencyLow:    0,
	LatencyMedium: 1,
	LatencyHigh:   2,
}

// Rank returns the ordinal rank of the tier (low=0, medium=1, high=2).
// Unknown tiers rank last.
func (t LatencyTier) Rank() int {
	if rank, ok := latencyRanks[t]; ok {
		return rank
	}
	return len(latencyRanks)
}

// latencyEstimatesMs maps each tier to its expected response time
var latencyEstimatesMs = map[LatencyTier]int{
	LatencyLow:    100,
	LatencyMedium: 500,
	LatencyHigh:   2000,
}

// DefaultLatencyMs is the conservative estimate used when the tier is
// unknown (model missing from the catalog, unknown tenant defaults).
const DefaultLatencyMs = 500

// EstimateMs returns the expected latency in milliseconds for the tier
func (t LatencyTier) EstimateMs() int {
	if ms, ok := latencyEstimatesMs[t]; ok {
		return ms
	}
	return DefaultLatencyMs
}

// QualityTier classifies model output quality
type QualityTier string

const (
	QualityBasic     QualityTier = "basic"
	QualityGood      QualityTier = "good"
	QualityExcellent QualityTier = "excellent"
)

// qualityRanks orders tiers best-first for ranking
var qualityRanks = map[QualityTier]int{
	QualityExcellent: 0,
	QualityGood:      1,
	QualityBasic:     2,
}

// Rank returns the ordinal rank of the tier (excellent=0, good=1, basic=2).
// Unknown tiers rank last.
func (t QualityTier) Rank() int {
	if rank, ok := qualityRanks[t]; ok {
		return rank
	}
	return len(qualityRanks)
}

// Model represents a processing backend registered in the catalog.
// Models are immutable once registered; re-registering an id replaces
// the previous entry in place.
type Model struct {
	ID             string      `json:"id" db:"id"`
	Capabilities   []string    `json:"capabilities" db:"capabilities"`
	MaxContextSize int         `json:"max_context_size" db:"max_context_size"`
	CostPerUnit    float64     `json:"cost_per_unit" db:"cost_per_unit"`
	LatencyTier    LatencyTier `json:"latency_tier" db:"latency_tier"`
	QualityTier    QualityTier `json:"quality_tier" db:"quality_tier"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Model model
func (Model) TableName() string {
	return "catalog_models"
}

// HasCapability reports whether the model can serve the given task type
func (m *Model) HasCapability(taskType string) bool {
	for _, c := range m.Capabilities {
		if c == taskType {
			return true
		}
	}
	return false
}
