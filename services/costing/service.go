package costing

import "github.com/upb/model-router/models"

// CatalogReader is the catalog view the estimator needs
type CatalogReader interface {
	Get(id string) (*models.Model, bool)
}

// Service computes monetary estimates for (model, token-count) pairs.
// It is a pure function of the catalog snapshot and never blocks a
// routing decision: unknown models estimate to zero.
type Service struct {
	catalog CatalogReader
}

// NewService creates a new cost estimator backed by the given catalog
func NewService(catalog CatalogReader) *Service {
	return &Service{catalog: catalog}
}

// Estimate returns (inputUnits + outputUnits) x the model's cost per
// unit. Unknown model ids and negative unit counts estimate to zero.
func (s *Service) Estimate(modelID string, inputUnits, outputUnits int) float64 {
	model, ok := s.catalog.Get(modelID)
	if !ok {
		return 0
	}

	units := inputUnits + outputUnits
	if units < 0 {
		return 0
	}

	return float64(units) * model.CostPerUnit
}
