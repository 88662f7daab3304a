package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/upb/model-router/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Catalog models table
		CREATE TABLE IF NOT EXISTS catalog_models (
			id VARCHAR(255) PRIMARY KEY,
			capabilities TEXT[] NOT NULL DEFAULT '{}',
			max_context_size INTEGER NOT NULL DEFAULT 0,
			cost_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
			latency_tier VARCHAR(16) NOT NULL,
			quality_tier VARCHAR(16) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Tenant configurations table
		CREATE TABLE IF NOT EXISTS tenant_configurations (
			tenant_id VARCHAR(255) PRIMARY KEY,
			allowed_model_ids TEXT[] NOT NULL DEFAULT '{}',
			max_cost_per_request DOUBLE PRECISION NOT NULL DEFAULT 0,
			channel_overrides JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Decision logs table
		CREATE TABLE IF NOT EXISTS decision_logs (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(255) NOT NULL,
			channel VARCHAR(64) NOT NULL,
			task_type VARCHAR(128) NOT NULL,
			message_size INTEGER NOT NULL,
			urgency VARCHAR(16) NOT NULL,
			selected_model_id VARCHAR(255) NOT NULL,
			reason_code VARCHAR(32) NOT NULL,
			estimated_cost DOUBLE PRECISION NOT NULL,
			estimated_latency_ms INTEGER NOT NULL,
			fallback_model_id VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_decision_logs_tenant
			ON decision_logs(tenant_id, created_at DESC);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized")
	return nil
}
