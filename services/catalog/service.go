package catalog

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
	// ErrEmptyModelID is returned when registering a model without an id
	ErrEmptyModelID = errors.New("model id cannot be empty")
)

// Service is the model catalog: the set of known processing backends
// and their static properties. Reads are lock-cheap and unbounded;
// writes are rare administrative upserts.
//
// Registration order is preserved and drives the stable tie-breaks in
// routing, so List always returns models in the order they were first
// registered.
type Service struct {
	mu     sync.RWMutex
	models map[string]*models.Model
	order  []string

	repo   repositories.ModelRepository // optional write-through store
	logger *zap.Logger
}

// NewService creates a new catalog service. repo may be nil for a
// memory-only catalog.
func NewService(repo repositories.ModelRepository, logger *zap.Logger) *Service {
	return &Service{
		models: make(map[string]*models.Model),
		repo:   repo,
		logger: logger,
	}
}

// Load hydrates the catalog from the backing repository. It is a no-op
// for memory-only catalogs.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	stored, err := s.repo.List(ctx)
	if err != nil {
		return services.WrapInternal("failed to load catalog", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range stored {
		s.upsertLocked(m)
	}

	s.logger.Info("catalog loaded", zap.Int("models", len(stored)))
	return nil
}

// Register upserts a model by id. Re-registering an id replaces the
// entry in place without changing its position in the catalog order.
func (s *Service) Register(ctx context.Context, model *models.Model) error {
	if model == nil || model.ID == "" {
		return ErrEmptyModelID
	}

	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, model); err != nil {
			return services.WrapInternal(fmt.Sprintf("failed to persist model %s", model.ID), err)
		}
	}

	s.mu.Lock()
	s.upsertLocked(model)
	s.mu.Unlock()

	s.logger.Debug("model registered",
		zap.String("model_id", model.ID),
		zap.Strings("capabilities", model.Capabilities))
	return nil
}

func (s *Service) upsertLocked(model *models.Model) {
	if _, exists := s.models[model.ID]; !exists {
		s.order = append(s.order, model.ID)
	}
	s.models[model.ID] = model
}

// Get returns the model for an id, or false when the id is unknown.
// Models are immutable once registered; callers must not modify the
// returned value.
func (s *Service) Get(id string) (*models.Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model, ok := s.models[id]
	return model, ok
}

// List returns all models in registration order
func (s *Service) List() []*models.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Model, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.models[id])
	}
	return out
}

// Count returns the number of registered models
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.models)
}
