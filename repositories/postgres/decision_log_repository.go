package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/model-router/models"
	"github.com/upb/model-router/repositories"
	"go.uber.org/zap"
)

// DecisionLogRepository implements the repositories.DecisionLogRepository interface
type DecisionLogRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDecisionLogRepository creates a new decision log repository
func NewDecisionLogRepository(db *DB, logger *zap.Logger) repositories.DecisionLogRepository {
	return &DecisionLogRepository{
		db:     db,
		logger: logger,
	}
}

// Insert records one routing decision
func (r *DecisionLogRepository) Insert(ctx context.Context, entry *models.DecisionLog) error {
	query := `
		INSERT INTO decision_logs (id, tenant_id, channel, task_type, message_size, urgency, selected_model_id, reason_code, estimated_cost, estimated_latency_ms, fallback_model_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.TenantID,
		entry.Channel,
		entry.TaskType,
		entry.MessageSize,
		entry.Urgency,
		entry.SelectedModelID,
		entry.ReasonCode,
		entry.EstimatedCost,
		entry.EstimatedLatencyMs,
		nullableString(entry.FallbackModelID),
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert decision log: %w", err)
	}

	return nil
}

// GetByTenantID retrieves recent decisions for a tenant with pagination
func (r *DecisionLogRepository) GetByTenantID(ctx context.Context, tenantID string, limit, offset int) ([]*models.DecisionLog, error) {
	query := `
		SELECT id, tenant_id, channel, task_type, message_size, urgency, selected_model_id, reason_code, estimated_cost, estimated_latency_ms, fallback_model_id, created_at
		FROM decision_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision logs: %w", err)
	}
	defer rows.Close()

	var out []*models.DecisionLog
	for rows.Next() {
		entry, err := scanDecisionLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision log: %w", err)
		}
		out = append(out, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decision logs: %w", err)
	}

	return out, nil
}

// GetByID retrieves a decision by id
func (r *DecisionLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DecisionLog, error) {
	query := `
		SELECT id, tenant_id, channel, task_type, message_size, urgency, selected_model_id, reason_code, estimated_cost, estimated_latency_ms, fallback_model_id, created_at
		FROM decision_logs
		WHERE id = $1
	`

	entry, err := scanDecisionLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("decision log not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get decision log: %w", err)
	}

	return entry, nil
}

func scanDecisionLog(row scanner) (*models.DecisionLog, error) {
	entry := &models.DecisionLog{}
	var fallback sql.NullString

	if err := row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.Channel,
		&entry.TaskType,
		&entry.MessageSize,
		&entry.Urgency,
		&entry.SelectedModelID,
		&entry.ReasonCode,
		&entry.EstimatedCost,
		&entry.EstimatedLatencyMs,
		&fallback,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}

	entry.FallbackModelID = fallback.String
	return entry, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
