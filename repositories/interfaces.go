package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/model-router/models"
)

// ModelRepository persists catalog models
type ModelRepository interface {
	// Upsert inserts or replaces a model by id
	Upsert(ctx context.Context, model *models.Model) error

	// Get retrieves a model by id
	Get(ctx context.Context, id string) (*models.Model, error)

	// List retrieves all models ordered by first registration
	List(ctx context.Context) ([]*models.Model, error)
}

// TenantRepository persists tenant configurations
type TenantRepository interface {
	// Upsert inserts or replaces a configuration by tenant id
	Upsert(ctx context.Context, cfg *models.TenantConfiguration) error

	// Get retrieves a configuration by tenant id
	Get(ctx context.Context, tenantID string) (*models.TenantConfiguration, error)

	// List retrieves all tenant configurations
	List(ctx context.Context) ([]*models.TenantConfiguration, error)
}

// DecisionLogRepository persists routing decisions for operators
type DecisionLogRepository interface {
	// Insert records one routing decision
	Insert(ctx context.Context, entry *models.DecisionLog) error

	// GetByTenantID retrieves recent decisions for a tenant with pagination
	GetByTenantID(ctx context.Context, tenantID string, limit, offset int) ([]*models.DecisionLog, error)

	// GetByID retrieves a decision by id
	GetByID(ctx context.Context, id uuid.UUID) (*models.DecisionLog, error)
}

// Repositories bundles all repository instances
type Repositories struct {
	Models       ModelRepository
	Tenants      TenantRepository
	DecisionLogs DecisionLogRepository
}
