package tenants

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/upb/model-router/models"
	"github.com/upb/model-router/repositories"
	"github.com/upb/model-router/services"
	"go.uber.org/zap"
)

var (
	// ErrEmptyTenantID is returned when setting a configuration without a tenant id
	ErrEmptyTenantID = errors.New("tenant id cannot be empty")
)

// Service is the tenant configuration store. It holds one
// TenantConfiguration per tenant; the routing engine only reads it,
// the administrative surface writes it.
//
// No validation beyond a non-empty tenant id: an empty allow-list is
// legal and means the tenant has no usable models yet.
type Service struct {
	mu      sync.RWMutex
	configs map[string]*models.TenantConfiguration

	repo   repositories.TenantRepository // optional write-through store
	logger *zap.Logger
}

// NewService creates a new tenant configuration store. repo may be nil
// for a memory-only store.
func NewService(repo repositories.TenantRepository, logger *zap.Logger) *Service {
	return &Service{
		configs: make(map[string]*models.TenantConfiguration),
		repo:    repo,
		logger:  logger,
	}
}

// Load hydrates the store from the backing repository
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	stored, err := s.repo.List(ctx)
	if err != nil {
		return services.WrapInternal("failed to load tenant configurations", err)
	}

	s.mu.Lock()
	for _, cfg := range stored {
		s.configs[cfg.TenantID] = cfg
	}
	s.mu.Unlock()

	s.logger.Info("tenant configurations loaded", zap.Int("tenants", len(stored)))
	return nil
}

// Set upserts a tenant configuration by tenant id
func (s *Service) Set(ctx context.Context, cfg *models.TenantConfiguration) error {
	if cfg == nil || cfg.TenantID == "" {
		return ErrEmptyTenantID
	}

	now := time.Now()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, cfg); err != nil {
			return services.WrapInternal(fmt.Sprintf("failed to persist tenant configuration %s", cfg.TenantID), err)
		}
	}

	s.mu.Lock()
	s.configs[cfg.TenantID] = cfg
	s.mu.Unlock()

	s.logger.Debug("tenant configuration set",
		zap.String("tenant_id", cfg.TenantID),
		zap.Int("allowed_models", len(cfg.AllowedModelIDs)))
	return nil
}

// Get returns the configuration for a tenant, or false when the tenant
// is unknown. Callers must not modify the returned value.
func (s *Service) Get(tenantID string) (*models.TenantConfiguration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[tenantID]
	return cfg, ok
}

// Count returns the number of configured tenants
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.configs)
}
