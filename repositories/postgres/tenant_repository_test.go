package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/model-router/models"
	"go.uber.org/zap"
)

func tenantColumns() []string {
	return []string{"tenant_id", "allowed_model_ids", "max_cost_per_request", "channel_overrides", "created_at", "updated_at"}
}

func TestTenantRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db, zap.NewNop())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tenant_configurations")).
		WithArgs("tenant-1", sqlmock.AnyArg(), 0.5, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.TenantConfiguration{
		TenantID:          "tenant-1",
		AllowedModelIDs:   []string{"model-a", "model-b"},
		MaxCostPerRequest: 0.5,
		ChannelOverrides:  map[string]string{"sms": "model-a"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db, zap.NewNop())

	now := time.Now()
	rows := sqlmock.NewRows(tenantColumns()).
		AddRow("tenant-1", pq.Array([]string{"model-a"}), 0.25, []byte(`{"sms":"model-a"}`), now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenant_configurations")).
		WithArgs("tenant-1").
		WillReturnRows(rows)

	cfg, err := repo.Get(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", cfg.TenantID)
	assert.Equal(t, []string{"model-a"}, cfg.AllowedModelIDs)
	assert.Equal(t, 0.25, cfg.MaxCostPerRequest)
	assert.Equal(t, map[string]string{"sms": "model-a"}, cfg.ChannelOverrides)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenant_configurations")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(tenantColumns()))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorContains(t, err, "tenant configuration not found")
}

func TestTenantRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db, zap.NewNop())

	now := time.Now()
	rows := sqlmock.NewRows(tenantColumns()).
		AddRow("tenant-1", pq.Array([]string{"model-a"}), 0.25, []byte(`{}`), now, now).
		AddRow("tenant-2", pq.Array([]string{}), 0.0, []byte(`{}`), now, now)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY tenant_id ASC")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tenant-1", list[0].TenantID)
	assert.Empty(t, list[1].AllowedModelIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
