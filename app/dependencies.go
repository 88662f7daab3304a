package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/model-router/config"
	"github.com/upb/model-router/middleware"
	"github.com/upb/model-router/repositories"
	"github.com/upb/model-router/repositories/postgres"
	"github.com/upb/model-router/services/audit"
	"github.com/upb/model-router/services/catalog"
	"github.com/upb/model-router/services/costing"
	"github.com/upb/model-router/services/routing"
	"github.com/upb/model-router/services/tenants"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB // nil for memory-only deployments
	Logger *zap.Logger

	// Repositories (nil for memory-only deployments)
	RepoFactory *postgres.RepositoryFactory
	Repos       *repositories.Repositories

	// Services
	Catalog     *catalog.Service
	Tenants     *tenants.Service
	Estimator   *costing.Service
	Engine      *routing.Service
	DecisionLog *audit.Service // nil for memory-only deployments

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	var repos *repositories.Repositories
	if cfg.Database.Enabled() {
		var err error
		repos, err = deps.initDatabase(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.Repos = repos
	} else {
		logger.Info("no database configured, running memory-only")
	}

	if err := deps.initServices(ctx, cfg, repos); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection, schema and repositories
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) (*repositories.Repositories, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return factory.NewRepositories(), nil
}

// initServices builds the catalog, tenant store, estimator and engine
func (d *Dependencies) initServices(ctx context.Context, cfg *config.Config, repos *repositories.Repositories) error {
	var modelRepo repositories.ModelRepository
	var tenantRepo repositories.TenantRepository
	if repos != nil {
		modelRepo = repos.Models
		tenantRepo = repos.Tenants
	}

	d.Catalog = catalog.NewService(modelRepo, d.Logger)
	if err := d.Catalog.Load(ctx); err != nil {
		return err
	}
	if cfg.Routing.CatalogSeedFile != "" {
		if err := d.Catalog.LoadSeedFile(ctx, cfg.Routing.CatalogSeedFile); err != nil {
			return err
		}
	}

	d.Tenants = tenants.NewService(tenantRepo, d.Logger)
	if err := d.Tenants.Load(ctx); err != nil {
		return err
	}

	d.Estimator = costing.NewService(d.Catalog)

	engineCfg := routing.Config{
		BaselineFreeModelID: cfg.Routing.BaselineFreeModelID,
		BaselinePaidModelID: cfg.Routing.BaselinePaidModelID,
	}
	d.Engine = routing.NewService(engineCfg, d.Catalog, d.Tenants, d.Estimator, d.Logger)

	if repos != nil {
		d.DecisionLog = audit.NewService(repos.DecisionLogs, d.Logger, audit.DefaultConfig())
		if err := d.DecisionLog.Start(); err != nil {
			return err
		}
	}

	return nil
}

// initAuth builds the admin auth middleware
func (d *Dependencies) initAuth(cfg *config.Config) {
	validator := middleware.NewJWTValidator(cfg.Auth.JWTSecret)
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)
}

// Close releases all resources held by the dependencies
func (d *Dependencies) Close() error {
	if d.DecisionLog != nil {
		if err := d.DecisionLog.Stop(10 * time.Second); err != nil {
			d.Logger.Warn("decision log shutdown incomplete", zap.Error(err))
		}
	}

	if d.RepoFactory != nil {
		return d.RepoFactory.Close()
	}
	return nil
}
