package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/upb/model-router/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of a catalog seed
type seedFile struct {
	Models []seedModel `yaml:"models"`
}

type seedModel struct {
	ID             string   `yaml:"id"`
	Capabilities   []string `yaml:"capabilities"`
	MaxContextSize int      `yaml:"max_context_size"`
	CostPerUnit    float64  `yaml:"cost_per_unit"`
	LatencyTier    string   `yaml:"latency_tier"`
	QualityTier    string   `yaml:"quality_tier"`
}

// LoadSeedFile registers every model listed in a YAML seed file.
// Seeding runs after Load, so seeded entries overwrite stale persisted
// definitions with the same id.
func (s *Service) LoadSeedFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for _, sm := range seed.Models {
		model := &models.Model{
			ID:             sm.ID,
			Capabilities:   sm.Capabilities,
			MaxContextSize: sm.MaxContextSize,
			CostPerUnit:    sm.CostPerUnit,
			LatencyTier:    models.LatencyTier(sm.LatencyTier),
			QualityTier:    models.QualityTier(sm.QualityTier),
		}
		if err := s.Register(ctx, model); err != nil {
			return fmt.Errorf("failed to register seeded model %q: %w", sm.ID, err)
		}
	}

	s.logger.Info("catalog seeded",
		zap.String("path", path),
		zap.Int("models", len(seed.Models)))
	return nil
}
