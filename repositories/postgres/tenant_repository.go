package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/model-router/models"
	"github.com/upb/model-router/repositories"
	"go.uber.org/zap"
)

// TenantRepository implements the repositories.TenantRepository interface
type TenantRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTenantRepository creates a new tenant configuration repository
func NewTenantRepository(db *DB, logger *zap.Logger) repositories.TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces a configuration by tenant id
func (r *TenantRepository) Upsert(ctx context.Context, cfg *models.TenantConfiguration) error {
	overrides, err := json.Marshal(cfg.ChannelOverrides)
	if err != nil {
		return fmt.Errorf("failed to marshal channel overrides: %w", err)
	}

	query := `
		INSERT INTO tenant_configurations (tenant_id, allowed_model_ids, max_cost_per_request, channel_overrides, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE SET
			allowed_model_ids = EXCLUDED.allowed_model_ids,
			max_cost_per_request = EXCLUDED.max_cost_per_request,
			channel_overrides = EXCLUDED.channel_overrides,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		cfg.TenantID,
		pq.Array(cfg.AllowedModelIDs),
		cfg.MaxCostPerRequest,
		overrides,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert tenant configuration: %w", err)
	}

	r.logger.Debug("tenant configuration upserted", zap.String("tenant_id", cfg.TenantID))
	return nil
}

// Get retrieves a configuration by tenant id
func (r *TenantRepository) Get(ctx context.Context, tenantID string) (*models.TenantConfiguration, error) {
	query := `
		SELECT tenant_id, allowed_model_ids, max_cost_per_request, channel_overrides, created_at, updated_at
		FROM tenant_configurations
		WHERE tenant_id = $1
	`

	cfg, err := scanTenantConfiguration(r.db.QueryRowContext(ctx, query, tenantID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant configuration not found: %s", tenantID)
		}
		return nil, fmt.Errorf("failed to get tenant configuration: %w", err)
	}

	return cfg, nil
}

// List retrieves all tenant configurations
func (r *TenantRepository) List(ctx context.Context) ([]*models.TenantConfiguration, error) {
	query := `
		SELECT tenant_id, allowed_model_ids, max_cost_per_request, channel_overrides, created_at, updated_at
		FROM tenant_configurations
		ORDER BY tenant_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant configurations: %w", err)
	}
	defer rows.Close()

	var out []*models.TenantConfiguration
	for rows.Next() {
		cfg, err := scanTenantConfiguration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant configuration: %w", err)
		}
		out = append(out, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenant configurations: %w", err)
	}

	return out, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTenantConfiguration(row scanner) (*models.TenantConfiguration, error) {
	cfg := &models.TenantConfiguration{}
	var overrides []byte

	if err := row.Scan(
		&cfg.TenantID,
		pq.Array(&cfg.AllowedModelIDs),
		&cfg.MaxCostPerRequest,
		&overrides,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &cfg.ChannelOverrides); err != nil {
			return nil, fmt.Errorf("failed to unmarshal channel overrides: %w", err)
		}
	}

	return cfg, nil
}
