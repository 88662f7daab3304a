package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/model-router/models"
	"github.com/upb/model-router/repositories"
	"go.uber.org/zap"
)

// ModelRepository implements the repositories.ModelRepository interface
type ModelRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewModelRepository creates a new catalog model repository
func NewModelRepository(db *DB, logger *zap.Logger) repositories.ModelRepository {
	return &ModelRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces a model by id
func (r *ModelRepository) Upsert(ctx context.Context, model *models.Model) error {
	query := `
		INSERT INTO catalog_models (id, capabilities, max_context_size, cost_per_unit, latency_tier, quality_tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			capabilities = EXCLUDED.capabilities,
			max_context_size = EXCLUDED.max_context_size,
			cost_per_unit = EXCLUDED.cost_per_unit,
			latency_tier = EXCLUDED.latency_tier,
			quality_tier = EXCLUDED.quality_tier,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		model.ID,
		pq.Array(model.Capabilities),
		model.MaxContextSize,
		model.CostPerUnit,
		model.LatencyTier,
		model.QualityTier,
		model.CreatedAt,
		model.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert model: %w", err)
	}

	r.logger.Debug("model upserted", zap.String("id", model.ID))
	return nil
}

// Get retrieves a model by id
func (r *ModelRepository) Get(ctx context.Context, id string) (*models.Model, error) {
	query := `
		SELECT id, capabilities, max_context_size, cost_per_unit, latency_tier, quality_tier, created_at, updated_at
		FROM catalog_models
		WHERE id = $1
	`

	model := &models.Model{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&model.ID,
		pq.Array(&model.Capabilities),
		&model.MaxContextSize,
		&model.CostPerUnit,
		&model.LatencyTier,
		&model.QualityTier,
		&model.CreatedAt,
		&model.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("model not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return model, nil
}

// List retrieves all models ordered by first registration
func (r *ModelRepository) List(ctx context.Context) ([]*models.Model, error) {
	query := `
		SELECT id, capabilities, max_context_size, cost_per_unit, latency_tier, quality_tier, created_at, updated_at
		FROM catalog_models
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var out []*models.Model
	for rows.Next() {
		model := &models.Model{}
		if err := rows.Scan(
			&model.ID,
			pq.Array(&model.Capabilities),
			&model.MaxContextSize,
			&model.CostPerUnit,
			&model.LatencyTier,
			&model.QualityTier,
			&model.CreatedAt,
			&model.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		out = append(out, model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate models: %w", err)
	}

	return out, nil
}
